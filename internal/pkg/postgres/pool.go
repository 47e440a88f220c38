package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"tracking-service/internal/pkg/config"
	"tracking-service/pkg/logger"
	retrierconfig "tracking-service/pkg/retrier"
	"tracking-service/pkg/retrier/backoff_adapter"
)

const (
	defaultMaxConns = 10
	defaultMinConns = 2
	maxConnLifetime = time.Hour

	// ожидание базы при старте
	connectInitialInterval = 5 * time.Second
	connectMaxInterval     = 30 * time.Second
	connectMaxElapsedTime  = 2 * time.Minute
	connectRandomization   = 0.5
	connectMultiplier      = 2
)

// NewConnPool открывает пул и ждёт ответа базы. Статистика пула
// экспортируется в Prometheus как postgres_pool_*.
func NewConnPool(ctx context.Context, log logger.Logger, cfg *config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = min(defaultMinConns, poolCfg.MaxConns)
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	poolCfg.MaxConnLifetime = maxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}

	dbLog := log.With(
		logger.NewField("host", cfg.Host),
		logger.NewField("port", cfg.Port),
		logger.NewField("db", cfg.DBName),
	)

	if err := pingDatabase(ctx, dbLog, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database connection: %w", err)
	}

	registerPoolStats(dbLog, pool)

	return pool, nil
}

// DSN строка подключения pgx, общая для пула и database/sql.
func DSN(cfg *config.Database) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return dsn.String()
}

func pingDatabase(ctx context.Context, log logger.Logger, pool *pgxpool.Pool) error {
	retrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: connectInitialInterval,
		MaxInterval:     connectMaxInterval,
		MaxElapsedTime:  connectMaxElapsedTime,
		Randomization:   connectRandomization,
		Multiplier:      connectMultiplier,
	})

	var attempt uint64
	err := retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		log.With(
			logger.NewField("attempt", attempt),
		).Info("attempting Database connection")

		return pool.Ping(ctx)
	})
	if err != nil {
		log.With(
			logger.NewField("error", err),
			logger.NewField("attempts", attempt),
		).Error("Database connection failed after retries")
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.With(
		logger.NewField("attempts", attempt),
	).Info("Database connection established")
	return nil
}

// registerPoolStats повторная регистрация (второй пул в процессе) только логируется.
func registerPoolStats(log logger.Logger, pool *pgxpool.Pool) {
	err := prometheus.Register(newPoolCollector(pool))
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		log.Warn("register pool metrics", logger.NewField("error", err))
	}
}
