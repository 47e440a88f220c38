package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	Tasks struct {
		PingRetentionInterval time.Duration
		RouteBackfillInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout, кроме SSE-потоков
		RateLimiterQPS   int           // пополнение ведра в секунду
		RateLimiterBurst int           // ёмкость ведра
		StreamHeartbeat  time.Duration // keepalive-комментарий SSE
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		MaxConns int32
		MinConns int32
	}

	// Maps Google Maps Web Services. QPS и Burst клиентская квота провайдера.
	Maps struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
		QPS     float64
		Burst   int
	}

	// Tracking параметры отслеживания, переопределяются файлом TRACKING_CONFIG_FILE.
	Tracking struct {
		PickupRadiusMeters   float64       `yaml:"pickup_radius_meters" validate:"gt=0,lte=5000"`
		DropoffRadiusMeters  float64       `yaml:"dropoff_radius_meters" validate:"gt=0,lte=5000"`
		ApproachRadiusMeters float64       `yaml:"approach_radius_meters" validate:"gt=0,lte=10000,gtefield=DropoffRadiusMeters"`
		RetainPings          uint64        `yaml:"retain_pings" validate:"gt=0"`
		ETARefreshInterval   time.Duration `yaml:"eta_refresh_interval" validate:"gte=0"`
		RouteMaxAttempts     uint64        `yaml:"route_max_attempts" validate:"gt=0,lte=5"`
		RouteBackfillBatch   uint64        `yaml:"route_backfill_batch" validate:"gt=0"`
		LiveBuffer           int           `yaml:"live_buffer" validate:"gt=0,lte=1024"`
	}

	Dispatcher struct {
		Workers    int           `yaml:"workers" validate:"gt=0,lte=256"`
		QueueSize  int           `yaml:"queue_size" validate:"gte=0"`
		JobTimeout time.Duration `yaml:"job_timeout" validate:"gt=0"`
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
		ProducerFlushFrequency    time.Duration
	}

	KafkaHandlers struct {
		DeliveryNotifications DeliveryNotifications
	}

	DeliveryNotifications struct {
		ProcessTimeout time.Duration
	}

	// Notifications внешние получатели уведомлений воркера. Пустой канал пропускается.
	Notifications struct {
		WebhookURL            string
		WebhookSecret         string
		WebhookTimeout        time.Duration
		WhatsAppBaseURL       string
		WhatsAppToken         string
		WhatsAppPhoneNumberID string
		TrackingBaseURL       string
		MaxAttempts           uint64
	}

	Config struct {
		Tasks         Tasks
		Server        HTTPServer
		Database      Database
		Maps          Maps
		Tracking      Tracking
		Dispatcher    Dispatcher
		Kafka         Kafka
		Notifications Notifications
	}
)

// LoadService конфигурация HTTP сервиса (cmd/service).
func LoadService() (*Config, error) {
	return load(validateService)
}

// LoadWorker конфигурация воркера уведомлений (cmd/worker-delivery-notifications).
func LoadWorker() (*Config, error) {
	return load(validateWorker)
}

// LoadDatabase только секция Database (cmd/migrate).
func LoadDatabase() (*Config, error) {
	return load(func(cfg *Config) error {
		return validateDatabase(&cfg.Database)
	})
}

func load(validate func(*Config) error) (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if path := os.Getenv("TRACKING_CONFIG_FILE"); path != "" {
		if err := applyTrackingFile(cfg, path); err != nil {
			return nil, fmt.Errorf("tracking config file: %w", err)
		}
	}

	if err := validateTracking(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// BrokerList список брокеров из KAFKA_BROKERS через запятую.
func (k Kafka) BrokerList() []string {
	brokers := make([]string, 0)
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func loadFromEnv() (*Config, error) {
	env := envReader{}

	cfg := &Config{
		Tasks: Tasks{
			PingRetentionInterval: env.duration("BACKGROUND_PING_RETENTION_INTERVAL", 10*time.Minute),
			RouteBackfillInterval: env.duration("BACKGROUND_ROUTE_BACKFILL_INTERVAL", time.Minute),
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   env.duration("MIDDLEWARE_REQUEST_TIMEOUT", 0),
			RateLimiterQPS:   env.int("MIDDLEWARE_RATE_LIMIT_QPS", 0),
			RateLimiterBurst: env.int("MIDDLEWARE_RATE_LIMIT_BURST", 0),
			StreamHeartbeat:  env.duration("SSE_HEARTBEAT_INTERVAL", 15*time.Second),
			PprofEnabled:     env.bool("PPROF_ENABLED", false),
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			MaxConns: int32(env.int("POSTGRES_MAX_CONNS", 0)), //nolint:gosec // размер пула
			MinConns: int32(env.int("POSTGRES_MIN_CONNS", 0)), //nolint:gosec // размер пула
		},
		Maps: Maps{
			BaseURL: os.Getenv("GOOGLE_MAPS_BASE_URL"),
			APIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
			Timeout: env.duration("GOOGLE_MAPS_TIMEOUT", 10*time.Second),
			QPS:     env.float("GOOGLE_MAPS_QPS", 50),
			Burst:   env.int("GOOGLE_MAPS_BURST", 50),
		},
		Tracking: Tracking{
			PickupRadiusMeters:   env.float("GEOFENCE_PICKUP_RADIUS_METERS", 50),
			DropoffRadiusMeters:  env.float("GEOFENCE_DROPOFF_RADIUS_METERS", 50),
			ApproachRadiusMeters: env.float("GEOFENCE_APPROACH_RADIUS_METERS", 100),
			RetainPings:          uint64(env.int("TRACKING_RETAIN_PINGS", 100)),
			ETARefreshInterval:   env.duration("TRACKING_ETA_REFRESH_INTERVAL", 30*time.Second),
			RouteMaxAttempts:     uint64(env.int("TRACKING_ROUTE_MAX_ATTEMPTS", 5)),
			RouteBackfillBatch:   uint64(env.int("TRACKING_ROUTE_BACKFILL_BATCH", 50)),
			LiveBuffer:           env.int("TRACKING_LIVE_BUFFER", 16),
		},
		Dispatcher: Dispatcher{
			Workers:    env.int("DISPATCHER_WORKERS", 8),
			QueueSize:  env.int("DISPATCHER_QUEUE_SIZE", 1024),
			JobTimeout: env.duration("DISPATCHER_JOB_TIMEOUT", 90*time.Second),
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           os.Getenv("KAFKA_TOPIC"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: env.bool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT", false),
				ProducerFlushFrequency:    env.duration("KAFKA_SARAMA_PRODUCER_FLUSH_FREQUENCY", 100*time.Millisecond),
			},
			Handlers: KafkaHandlers{
				DeliveryNotifications: DeliveryNotifications{
					ProcessTimeout: env.duration("KAFKA_HANDLER_DELIVERY_NOTIFICATIONS_PROCESS_TIMEOUT", 0),
				},
			},
		},
		Notifications: Notifications{
			WebhookURL:            os.Getenv("NOTIFICATIONS_WEBHOOK_URL"),
			WebhookSecret:         os.Getenv("NOTIFICATIONS_WEBHOOK_SECRET"),
			WebhookTimeout:        env.duration("NOTIFICATIONS_WEBHOOK_TIMEOUT", 10*time.Second),
			WhatsAppBaseURL:       os.Getenv("WHATSAPP_BASE_URL"),
			WhatsAppToken:         os.Getenv("WHATSAPP_TOKEN"),
			WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			TrackingBaseURL:       os.Getenv("TRACKING_BASE_URL"),
			MaxAttempts:           uint64(env.int("NOTIFICATIONS_MAX_ATTEMPTS", 3)),
		},
	}

	if err := env.err(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func validateService(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}

	if cfg.Maps.APIKey == "" {
		return errors.New("GOOGLE_MAPS_API_KEY is required")
	}
	if cfg.Maps.QPS <= 0 || cfg.Maps.Burst <= 0 {
		return errors.New("GOOGLE_MAPS_QPS and GOOGLE_MAPS_BURST must be positive")
	}

	if cfg.Tasks.PingRetentionInterval <= 0 {
		return errors.New("BACKGROUND_PING_RETENTION_INTERVAL must be positive")
	}
	if cfg.Tasks.RouteBackfillInterval <= 0 {
		return errors.New("BACKGROUND_ROUTE_BACKFILL_INTERVAL must be positive")
	}

	// без брокеров внешние уведомления отключены, живой канал работает
	if cfg.Kafka.Brokers != "" {
		if cfg.Kafka.Topic == "" {
			return errors.New("KAFKA_TOPIC is required")
		}
		if cfg.Kafka.Sarama.Version == "" {
			return errors.New("KAFKA_SARAMA_VERSION is required")
		}
	}

	return nil
}

func validateWorker(cfg *Config) error {
	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}
	if cfg.Kafka.Handlers.DeliveryNotifications.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_DELIVERY_NOTIFICATIONS_PROCESS_TIMEOUT is required")
	}

	if cfg.Notifications.MaxAttempts == 0 {
		return errors.New("NOTIFICATIONS_MAX_ATTEMPTS must be positive")
	}
	if (cfg.Notifications.WhatsAppToken == "") != (cfg.Notifications.WhatsAppPhoneNumberID == "") {
		return errors.New("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID must be set together")
	}

	return nil
}

func validateDatabase(db *Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

// envReader копит ошибки разбора, значение по умолчанию подставляется для пустой переменной.
type envReader struct {
	errs []error
}

func (e *envReader) err() error {
	return errors.Join(e.errs...)
}

func (e *envReader) int(key string, def int) int {
	res, err := osGetInt(key)
	if err != nil {
		e.errs = append(e.errs, err)
		return def
	}
	if os.Getenv(key) == "" {
		return def
	}
	return res
}

func (e *envReader) float(key string, def float64) float64 {
	res, err := osGetFloat(key)
	if err != nil {
		e.errs = append(e.errs, err)
		return def
	}
	if os.Getenv(key) == "" {
		return def
	}
	return res
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	res, err := osGetEnvDuration(key)
	if err != nil {
		e.errs = append(e.errs, err)
		return def
	}
	if os.Getenv(key) == "" {
		return def
	}
	return res
}

func (e *envReader) bool(key string, def bool) bool {
	res, err := osGetBool(key)
	if err != nil {
		e.errs = append(e.errs, err)
		return def
	}
	if os.Getenv(key) == "" {
		return def
	}
	return res
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
