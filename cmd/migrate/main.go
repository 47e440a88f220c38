package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"tracking-service/internal/pkg/config"
	"tracking-service/internal/pkg/dotenv"
	"tracking-service/internal/pkg/postgres"
	"tracking-service/migrations"
	"tracking-service/pkg/logger"
	"tracking-service/pkg/logger/zap_adapter"
)

// migrate применяет встроенные миграции: migrate [up|down|status|version|reset]
func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(os.Getenv("LOG_LEVEL"))
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var log logger.Logger = zapLogger

	flag.Parse()
	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	// позиционный аргумент migrate это команда, флаги окружения здесь не нужны
	if _, err := dotenv.Load(nil); err != nil {
		log.Error("failed to load .env file", logger.NewField("error", err))
		os.Exit(1)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Error("load config", logger.NewField("error", err))
		os.Exit(1)
	}

	if err := run(command, cfg, log); err != nil {
		log.Error("migration failed",
			logger.NewField("command", command),
			logger.NewField("error", err),
		)
		os.Exit(1)
	}
}

func run(command string, cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := sql.Open("pgx", postgres.DSN(&cfg.Database))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", logger.NewField("error", err))
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	log.Info("migrations done", logger.NewField("command", command))
	return nil
}

// gooseLogger вывод goose в структурный лог
type gooseLogger struct {
	log logger.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}
