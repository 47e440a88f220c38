package timeout

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Middleware ограничивает время запроса. Пути с суффиксом из skipSuffixes
// (долгоживущие потоки) идут без таймаута.
func Middleware(timeout time.Duration, skipSuffixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, suffix := range skipSuffixes {
				if strings.HasSuffix(r.URL.Path, suffix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// r.Context() = ongoingCtx (из BaseContext)
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
