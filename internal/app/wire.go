//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"tracking-service/internal/pkg/config"
	"tracking-service/internal/pkg/kafka"
	courierService "tracking-service/internal/service/courier"
	deliveryService "tracking-service/internal/service/delivery"
	ingestionService "tracking-service/internal/service/ingestion"
	progressService "tracking-service/internal/service/progress"
	statusService "tracking-service/internal/service/status"
	trackingService "tracking-service/internal/service/tracking"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
)

// InitializeApplication для HTTP сервиса (cmd/service). producer может быть nil.
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	dispatcher *background.Dispatcher,
	producer *kafka.Producer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideHTTPClient,
		provideTxManager,
		provideQuerier,

		provideCourierRepository,
		provideDeliveryRepository,
		providePingRepository,

		provideMapsGateway,
		provideLiveHub,
		provideNotificationSink,
		progressService.New,

		provideServiceCourier,
		provideServiceDelivery,
		provideFanout,
		provideRouting,
		provideTracking,
		provideStatusMachine,
		provideGeofence,
		provideIngestion,

		providePingRetentionTask,
		provideRouteBackfillTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceCourier), new(*courierService.Courier)),
		wire.Bind(new(ServiceDelivery), new(*deliveryService.Delivery)),
		wire.Bind(new(ServiceStatus), new(*statusService.Machine)),
		wire.Bind(new(ServiceIngestion), new(*ingestionService.Ingestor)),
		wire.Bind(new(ServiceTracking), new(*trackingService.Tracking)),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp для воркера уведомлений (cmd/worker-delivery-notifications)
func InitializeKafkaWorkerApp(
	log logger.Logger,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		provideHTTPClient,
		provideWebhookGateway,
		provideWhatsAppGateway,
		provideNotifier,

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
