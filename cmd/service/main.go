package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "tracking-service/internal/app"
	"tracking-service/internal/handlers/rest/courier_address_put"
	"tracking-service/internal/handlers/rest/courier_get"
	"tracking-service/internal/handlers/rest/courier_location_post"
	"tracking-service/internal/handlers/rest/courier_post"
	"tracking-service/internal/handlers/rest/delivery_assign_post"
	"tracking-service/internal/handlers/rest/delivery_post"
	"tracking-service/internal/handlers/rest/delivery_status_post"
	"tracking-service/internal/handlers/rest/healthcheck_head"
	"tracking-service/internal/handlers/rest/tracking_get"
	"tracking-service/internal/handlers/rest/tracking_location_post"
	"tracking-service/internal/handlers/rest/tracking_stream_get"
	"tracking-service/internal/pkg/config"
	"tracking-service/internal/pkg/dotenv"
	"tracking-service/internal/pkg/kafka"
	metrics_system "tracking-service/internal/pkg/metrics"
	"tracking-service/internal/pkg/middlewares/graceful_shutdown"
	"tracking-service/internal/pkg/middlewares/metrics"
	"tracking-service/internal/pkg/middlewares/rate_limiter"
	"tracking-service/internal/pkg/middlewares/timeout"
	"tracking-service/internal/pkg/postgres"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
	"tracking-service/pkg/logger/zap_adapter"
	"tracking-service/pkg/token_bucket"
)

// streamPathSuffix живые потоки не ограничены таймаутом запроса
const streamPathSuffix = "/stream"

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

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting tracking-service application")

	found, err := dotenv.Load(os.Args[1:])
	if err != nil {
		mainLog.Error("failed to load environment", logger.NewField("error", err))
		return
	}
	if !found {
		mainLog.Warn("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadService()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	// без брокеров события доставок уходят только в живой канал
	var producer *kafka.Producer
	if cfg.Kafka.Brokers != "" {
		producer, err = kafka.NewProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				runLog.Error("failed to close kafka producer", logger.NewField("error", err))
			}
		}()
	} else {
		runLog.Warn("KAFKA_BROKERS is empty, external notifications are disabled")
	}

	// фоновые задачи после коммита не должны отменяться вместе с запросом или сигналом,
	// их контекст отменяется только после остановки диспетчера
	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()

	dispatcher := background.NewDispatcher(dispatcherCtx, log.With(logger.NewField("component", "dispatcher")), background.DispatcherConfig{
		Workers:    cfg.Dispatcher.Workers,
		QueueSize:  cfg.Dispatcher.QueueSize,
		JobTimeout: cfg.Dispatcher.JobTimeout,
	})

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, dispatcher, producer, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, cfg.Server, pool.Ping),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second, // SSE сбрасывает дедлайн сам
		IdleTimeout:       60 * time.Second,
	}
	// открытые SSE-потоки завершаются сразу, иначе Shutdown ждёт их до таймаута
	server.RegisterOnShutdown(businessApp.Hub.Close)

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	// после остановки сервера новых задач нет, ждём уже поставленные
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		runLog.Error("dispatcher stop", logger.NewField("error", err))
	}
	cancelDispatcher()

	// ctx уже отменён, периодические задачи выходят на ближайшем тике
	businessApp.BackgroundWorkers.Wait()

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	cfg config.HTTPServer,
	dbCheck healthcheck_head.Check,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.RequestTimeout, streamPathSuffix))
	router.Use(metrics.Middleware(log))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, dbCheck)).Methods("HEAD")

	router.Handle("/courier", courier_post.New(log, app.ServiceCourier)).Methods("POST")
	router.Handle("/courier/{id}", courier_get.New(log, app.ServiceCourier)).Methods("GET")
	router.Handle("/courier/{id}/address", courier_address_put.New(log, app.ServiceCourier)).Methods("PUT")

	// пинги самый частый запрос, у них общий лимит
	pingLimit := rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.NewTokenBucket(cfg.RateLimiterBurst, float64(cfg.RateLimiterQPS)))
	router.Handle("/courier/{id}/location", pingLimit(courier_location_post.New(log, app.ServiceIngestion))).Methods("POST")
	router.Handle("/track/{token}/location", pingLimit(tracking_location_post.New(log, app.ServiceIngestion))).Methods("POST")

	router.Handle("/track/{token}", tracking_get.New(log, app.ServiceTracking)).Methods("GET")
	router.Handle("/track/{token}"+streamPathSuffix, tracking_stream_get.New(log, app.ServiceTracking, cfg.StreamHeartbeat)).Methods("GET")

	router.Handle("/delivery", delivery_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/delivery/{id}/assign", delivery_assign_post.New(log, app.ServiceStatus)).Methods("POST")
	router.Handle("/delivery/{id}/status", delivery_status_post.New(log, app.ServiceStatus)).Methods("POST")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
