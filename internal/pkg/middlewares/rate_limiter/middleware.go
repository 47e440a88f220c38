package rate_limiter

import (
	"net/http"
	"strconv"

	"tracking-service/internal/pkg/middlewares/metrics"
	"tracking-service/pkg/logger"
)

const tooManyRequestsBody = `{"error":"Too Many Requests","message":"Rate limit exceeded. Try again later."}`

// Middleware отсекает запросы сверх лимита до хендлеров приёма пингов.
// qps попадает только в заголовок X-RateLimit-Limit.
func Middleware(log handlerLogger, qps int, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			RateLimitExceededTotal.WithLabelValues(r.Method, route).Inc()

			log.With(
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			).Warn("rate limit exceeded")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(qps))
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)

			if _, err := w.Write([]byte(tooManyRequestsBody)); err != nil {
				log.With(
					logger.NewField("error", err),
					logger.NewField("path", r.URL.Path),
				).Error("failed to write rate limit response")
			}
		})
	}
}
