package healthcheck_head

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"
)

const checkTimeout = time.Second

// Check проверка зависимости, например ping пула Postgres.
type Check func(ctx context.Context) error

// Handler отвечает 204, пока сервис не останавливается и все пробы проходят.
// Результат только в коде ответа, тела у HEAD нет.
type Handler struct {
	isShuttingDown *atomic.Bool
	checks         []Check
}

func New(isShuttingDown *atomic.Bool, checks ...Check) *Handler {
	return &Handler{
		isShuttingDown: isShuttingDown,
		checks:         checks,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShuttingDown.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	for _, check := range h.checks {
		if err := check(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
