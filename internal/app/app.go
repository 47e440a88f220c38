package app

import (
	"context"
	"net/http"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	mapsGateway "tracking-service/internal/gateway/maps"
	webhookGateway "tracking-service/internal/gateway/webhook"
	whatsappGateway "tracking-service/internal/gateway/whatsapp"
	"tracking-service/internal/handlers/rest/courier_address_put"
	"tracking-service/internal/handlers/rest/courier_get"
	"tracking-service/internal/handlers/rest/courier_location_post"
	"tracking-service/internal/handlers/rest/courier_post"
	"tracking-service/internal/handlers/rest/delivery_assign_post"
	"tracking-service/internal/handlers/rest/delivery_post"
	"tracking-service/internal/handlers/rest/delivery_status_post"
	"tracking-service/internal/handlers/rest/tracking_get"
	"tracking-service/internal/handlers/rest/tracking_location_post"
	"tracking-service/internal/handlers/rest/tracking_stream_get"
	"tracking-service/internal/handlers/tasks/ping_retention"
	"tracking-service/internal/handlers/tasks/route_backfill"
	"tracking-service/internal/pkg/config"
	"tracking-service/internal/pkg/kafka"
	"tracking-service/internal/pkg/livehub"
	"tracking-service/internal/pkg/publictoken"
	courierRepo "tracking-service/internal/repository/courier"
	deliveryRepo "tracking-service/internal/repository/delivery"
	pingRepo "tracking-service/internal/repository/location_ping"
	courierService "tracking-service/internal/service/courier"
	deliveryService "tracking-service/internal/service/delivery"
	geofenceService "tracking-service/internal/service/geofence"
	ingestionService "tracking-service/internal/service/ingestion"
	notificationService "tracking-service/internal/service/notification"
	notifierService "tracking-service/internal/service/notifier"
	progressService "tracking-service/internal/service/progress"
	routingService "tracking-service/internal/service/routing"
	statusService "tracking-service/internal/service/status"
	trackingService "tracking-service/internal/service/tracking"
	"tracking-service/pkg/background"
	"tracking-service/pkg/logger"
	"tracking-service/pkg/querier"
	retrierconfig "tracking-service/pkg/retrier"
	"tracking-service/pkg/token_bucket"
	"tracking-service/pkg/tx"
)

// ожидание между повторами запросов к внешним API
const (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 10 * time.Second
	retryMaxElapsedTime  = time.Minute
	retryRandomization   = 0.5
	retryMultiplier      = 2
)

type Application struct {
	ServiceCourier    ServiceCourier
	ServiceDelivery   ServiceDelivery
	ServiceStatus     ServiceStatus
	ServiceIngestion  ServiceIngestion
	ServiceTracking   ServiceTracking
	BackgroundWorkers *background.Worker
	Hub               *livehub.Hub
}

type ServiceCourier interface {
	courier_get.Service
	courier_post.Service
	courier_address_put.Service
}

type ServiceDelivery interface {
	delivery_post.Service
}

type ServiceStatus interface {
	delivery_assign_post.Service
	delivery_status_post.Service
}

type ServiceIngestion interface {
	courier_location_post.Service
	tracking_location_post.Service
}

type ServiceTracking interface {
	tracking_get.Service
	tracking_stream_get.Service
}

type KafkaWorkerApp struct {
	Notifier *notifierService.Notifier
}

func retryConfig(maxAttempts uint64) retrierconfig.Config {
	return retrierconfig.Config{
		InitialInterval: retryInitialInterval,
		MaxInterval:     retryMaxInterval,
		MaxElapsedTime:  retryMaxElapsedTime,
		Randomization:   retryRandomization,
		Multiplier:      retryMultiplier,
		MaxAttempts:     maxAttempts,
	}
}

func provideHTTPClient() *http.Client {
	return &http.Client{}
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideCourierRepository(querier *querier.Querier) *courierRepo.Repository {
	return courierRepo.New(querier)
}

func provideDeliveryRepository(querier *querier.Querier) *deliveryRepo.Repository {
	return deliveryRepo.New(querier)
}

func providePingRepository(querier *querier.Querier) *pingRepo.Repository {
	return pingRepo.New(querier)
}

func provideMapsGateway(cfg *config.Config, client *http.Client) *mapsGateway.MapsGateway {
	return mapsGateway.New(
		mapsGateway.Config{
			BaseURL: cfg.Maps.BaseURL,
			APIKey:  cfg.Maps.APIKey,
			Timeout: cfg.Maps.Timeout,
		},
		client,
		token_bucket.NewTokenBucket(cfg.Maps.Burst, cfg.Maps.QPS),
	)
}

func provideLiveHub(cfg *config.Config) *livehub.Hub {
	return livehub.New(cfg.Tracking.LiveBuffer)
}

// provideNotificationSink без продюсера внешние уведомления отключены. Возвращается
// nil-интерфейс, а не типизированный nil.
func provideNotificationSink(producer *kafka.Producer) notificationService.Sink {
	if producer == nil {
		return nil
	}
	return producer
}

func provideServiceCourier(
	repository *courierRepo.Repository,
	pings *pingRepo.Repository,
	geocoder *mapsGateway.MapsGateway,
) *courierService.Courier {
	return courierService.New(repository, pings, geocoder)
}

func provideServiceDelivery(
	repository *deliveryRepo.Repository,
	geocoder *mapsGateway.MapsGateway,
) *deliveryService.Delivery {
	return deliveryService.New(repository, geocoder, publictoken.New())
}

func provideFanout(
	log logger.Logger,
	hub *livehub.Hub,
	sink notificationService.Sink,
	dispatcher *background.Dispatcher,
) *notificationService.Fanout {
	return notificationService.New(log, hub, sink, dispatcher)
}

func provideRouting(
	log logger.Logger,
	provider *mapsGateway.MapsGateway,
	repository *deliveryRepo.Repository,
	txManager *tx.Manager,
	fanout *notificationService.Fanout,
	estimator *progressService.Estimator,
	cfg *config.Config,
) *routingService.Routing {
	return routingService.New(log, provider, repository, txManager, fanout, estimator, routingService.Config{
		Retry:              retryConfig(cfg.Tracking.RouteMaxAttempts),
		ETARefreshInterval: cfg.Tracking.ETARefreshInterval,
		BackfillBatch:      cfg.Tracking.RouteBackfillBatch,
	})
}

func provideTracking(
	log logger.Logger,
	deliveries *deliveryRepo.Repository,
	pings *pingRepo.Repository,
	couriers *courierService.Courier,
	estimator *progressService.Estimator,
	hub *livehub.Hub,
	cfg *config.Config,
) *trackingService.Tracking {
	return trackingService.New(log, deliveries, pings, couriers, estimator, hub, trackingService.Config{
		RetainPings: cfg.Tracking.RetainPings,
	})
}

func provideStatusMachine(
	log logger.Logger,
	repository *deliveryRepo.Repository,
	couriers *courierService.Courier,
	txManager *tx.Manager,
	dispatcher *background.Dispatcher,
	routing *routingService.Routing,
	tracking *trackingService.Tracking,
	fanout *notificationService.Fanout,
	estimator *progressService.Estimator,
) *statusService.Machine {
	return statusService.New(log, repository, couriers, txManager, dispatcher, routing, tracking, fanout, estimator)
}

func provideGeofence(
	log logger.Logger,
	repository *deliveryRepo.Repository,
	machine *statusService.Machine,
	fanout *notificationService.Fanout,
	cfg *config.Config,
) *geofenceService.Evaluator {
	return geofenceService.New(log, repository, machine, fanout, geofenceService.Config{
		PickupRadiusMeters:   cfg.Tracking.PickupRadiusMeters,
		DropoffRadiusMeters:  cfg.Tracking.DropoffRadiusMeters,
		ApproachRadiusMeters: cfg.Tracking.ApproachRadiusMeters,
	})
}

func provideIngestion(
	log logger.Logger,
	pings *pingRepo.Repository,
	deliveries *deliveryRepo.Repository,
	couriers *courierService.Courier,
	txManager *tx.Manager,
	dispatcher *background.Dispatcher,
	geofence *geofenceService.Evaluator,
	routing *routingService.Routing,
	fanout *notificationService.Fanout,
	estimator *progressService.Estimator,
) *ingestionService.Ingestor {
	return ingestionService.New(log, pings, deliveries, couriers, txManager, dispatcher, geofence, routing, fanout, estimator)
}

func providePingRetentionTask(
	log logger.Logger,
	tracking *trackingService.Tracking,
	cfg *config.Config,
) *ping_retention.PingRetention {
	return ping_retention.NewPingRetention(log, tracking, cfg.Tasks.PingRetentionInterval)
}

func provideRouteBackfillTask(
	log logger.Logger,
	routing *routingService.Routing,
	cfg *config.Config,
) *route_backfill.RouteBackfill {
	return route_backfill.NewRouteBackfill(log, routing, cfg.Tasks.RouteBackfillInterval)
}

func provideTaskList(
	pingRetentionTask *ping_retention.PingRetention,
	routeBackfillTask *route_backfill.RouteBackfill,
) []background.Task {
	return []background.Task{
		pingRetentionTask,
		routeBackfillTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

// provideWebhookGateway nil, если URL вебхука не задан.
func provideWebhookGateway(cfg *config.Config, client *http.Client) notifierService.WebhookGateway {
	if cfg.Notifications.WebhookURL == "" {
		return nil
	}
	return webhookGateway.New(webhookGateway.Config{
		URL:     cfg.Notifications.WebhookURL,
		Secret:  cfg.Notifications.WebhookSecret,
		Timeout: cfg.Notifications.WebhookTimeout,
	}, client)
}

// provideWhatsAppGateway nil, если Cloud API не настроен.
func provideWhatsAppGateway(cfg *config.Config, client *http.Client) notifierService.MessagingGateway {
	whatsappConfig := whatsappGateway.Config{
		BaseURL:       cfg.Notifications.WhatsAppBaseURL,
		Token:         cfg.Notifications.WhatsAppToken,
		PhoneNumberID: cfg.Notifications.WhatsAppPhoneNumberID,
		Timeout:       cfg.Notifications.WebhookTimeout,
	}
	if !whatsappConfig.Configured() {
		return nil
	}
	return whatsappGateway.New(whatsappConfig, client)
}

func provideNotifier(
	log logger.Logger,
	webhook notifierService.WebhookGateway,
	whatsapp notifierService.MessagingGateway,
	cfg *config.Config,
) *notifierService.Notifier {
	return notifierService.New(log, webhook, whatsapp, notifierService.Config{
		Retry:           retryConfig(cfg.Notifications.MaxAttempts),
		TrackingBaseURL: cfg.Notifications.TrackingBaseURL,
	})
}
