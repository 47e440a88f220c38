package kafka

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/IBM/sarama"
	"tracking-service/pkg/logger"
	retrierconfig "tracking-service/pkg/retrier"
	"tracking-service/pkg/retrier/backoff_adapter"
)

// параметры ожидания брокера при старте
const (
	connectInitialInterval = 1 * time.Second
	connectMaxInterval     = 30 * time.Second
	connectMaxElapsedTime  = 2 * time.Minute
	connectRandomization   = 0.5
	connectMultiplier      = 2
)

// baseSaramaConfig общая часть конфигурации продюсера и консьюмера.
func baseSaramaConfig(versionStr string) (*sarama.Config, error) {
	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}

	cfg := sarama.NewConfig()
	cfg.Version = version
	cfg.ClientID = "tracking-service"

	return cfg, nil
}

// waitForBroker ждёт, пока брокер начнёт отдавать метаданные. Отсутствие
// топика не ошибка: брокер может создать его при первой записи.
func waitForBroker(ctx context.Context, log logger.Logger, brokers []string, topic string, cfg *sarama.Config) error {
	retrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: connectInitialInterval,
		MaxInterval:     connectMaxInterval,
		MaxElapsedTime:  connectMaxElapsedTime,
		Randomization:   connectRandomization,
		Multiplier:      connectMultiplier,
		OnRetry: func(attempt uint64, err error, wait time.Duration) {
			log.Warn("kafka is not reachable yet",
				logger.NewField("attempt", attempt),
				logger.NewField("wait", wait.String()),
				logger.NewField("error", err),
			)
		},
	})

	var topics []string
	err := retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		client, err := sarama.NewClient(brokers, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close connectivity client", logger.NewField("error", err))
			}
		}()

		topics, err = client.Topics()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}

	if !slices.Contains(topics, topic) {
		log.Warn("kafka topic does not exist yet", logger.NewField("topic", topic))
	}
	log.Info("Kafka connection established")
	return nil
}
