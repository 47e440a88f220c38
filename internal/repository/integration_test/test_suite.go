package integration_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"tracking-service/internal/pkg/config"
	"tracking-service/internal/pkg/postgres"
	"tracking-service/migrations"
	"tracking-service/pkg/logger/zap_adapter"
	"tracking-service/pkg/querier"
)

const statementTimeout = 5 * time.Second

var (
	querierInstance *querier.Querier
	querierOnce     sync.Once
)

// GetQuerier один пул на весь прогон. Перед первым подключением схема
// доводится до последней миграции.
func GetQuerier() *querier.Querier {
	querierOnce.Do(func() {
		// переменные POSTGRES_* выставляет Makefile из .env.test
		cfg, err := config.LoadDatabase()
		if err != nil {
			log.Fatalf("integration config: %v", err)
		}

		if err := migrateUp(&cfg.Database); err != nil {
			log.Fatalf("integration migrations: %v", err)
		}

		zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}

		connPool, err := postgres.NewConnPool(context.Background(), zapLogger, &cfg.Database)
		if err != nil {
			log.Fatalf("integration pool: %v", err)
		}

		querierInstance = querier.New(connPool, pgxv5.DefaultCtxGetter)
	})

	return querierInstance
}

func migrateUp(cfg *config.Database) error {
	db, err := sql.Open("pgx", postgres.DSN(cfg))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

func SetupDB(t *testing.T, setupSql string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), statementTimeout)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, setupSql)
	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), statementTimeout)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE location_pings, deliveries, couriers RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err)
}
