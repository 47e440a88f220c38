package querier

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier выполняет запросы в транзакции из ctx, а без неё прямо на пуле.
type Querier struct {
	pool   *pgxpool.Pool
	getter *pgxv5.CtxGetter
}

func New(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *Querier {
	return &Querier{
		pool:   pool,
		getter: getter,
	}
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	executor, scope := q.executor(ctx)
	defer observe("exec", scope, time.Now())

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		QueryErrorsTotal.WithLabelValues("exec", scope).Inc()
	}
	return tag, err
}

func (q *Querier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	executor, scope := q.executor(ctx)
	defer observe("query", scope, time.Now())

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		QueryErrorsTotal.WithLabelValues("query", scope).Inc()
	}
	return rows, err
}

// QueryRow ошибка приходит только из Scan, поэтому считается лишь время отправки.
func (q *Querier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	executor, scope := q.executor(ctx)
	defer observe("query_row", scope, time.Now())

	return executor.QueryRow(ctx, sql, args...)
}

func (q *Querier) executor(ctx context.Context) (pgxv5.Tr, string) {
	executor := q.getter.DefaultTrOrDB(ctx, q.pool)
	if _, onPool := executor.(*pgxpool.Pool); onPool {
		return executor, scopePool
	}
	return executor, scopeTx
}

func observe(op, scope string, start time.Time) {
	QueryDuration.WithLabelValues(op, scope).Observe(time.Since(start).Seconds())
}
