package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"tracking-service/internal/pkg/config"
	"tracking-service/pkg/logger"
)

var ConsumerSessionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_consumer_sessions_total",
		Help: "Consumer group sessions by outcome (rebalance, error)",
	},
	[]string{"group", "outcome"},
)

// Consumer читает топик уведомлений в составе consumer group и открывает
// сессию заново после каждой ребалансировки.
type Consumer struct {
	log     logger.Logger
	client  sarama.ConsumerGroup
	group   string
	topics  []string
	handler sarama.ConsumerGroupHandler
}

func newConsumerSaramaConfig(cfg *config.Kafka) (*sarama.Config, error) {
	saramaConfig, err := baseSaramaConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, err
	}

	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = cfg.Sarama.ConsumerOffsetsAutocommit
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}

	return saramaConfig, nil
}

// NewConsumer подписывается на cfg.Topic группой cfg.ConsumerGroup. Брокер должен
// ответить до истечения connectMaxElapsedTime.
func NewConsumer(ctx context.Context, log logger.Logger, cfg *config.Kafka, handler sarama.ConsumerGroupHandler) (*Consumer, error) {
	brokers := cfg.BrokerList()

	saramaConfig, err := newConsumerSaramaConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("group", cfg.ConsumerGroup),
		logger.NewField("topic", cfg.Topic),
	)

	if err := waitForBroker(ctx, kafkaLog, brokers, cfg.Topic, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	client, err := sarama.NewConsumerGroup(brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	consumer := &Consumer{
		log:     kafkaLog,
		client:  client,
		group:   cfg.ConsumerGroup,
		topics:  []string{cfg.Topic},
		handler: handler,
	}
	go consumer.logErrors()

	return consumer, nil
}

// Start блокирует до отмены ctx или ошибки группы. Consume возвращает nil на
// каждой ребалансировке.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("Kafka consumer starting")

	for {
		if err := c.client.Consume(ctx, c.topics, c.handler); err != nil {
			ConsumerSessionsTotal.WithLabelValues(c.group, "error").Inc()
			c.log.Error("consumer group session failed", logger.NewField("error", err))
			return fmt.Errorf("consumer error: %w", err)
		}

		if ctx.Err() != nil {
			c.log.Info("consumer stopped")
			return ctx.Err()
		}
		ConsumerSessionsTotal.WithLabelValues(c.group, "rebalance").Inc()
	}
}

func (c *Consumer) Close() error {
	return c.client.Close()
}

// logErrors ошибки сессий группы, не прерывающие Consume.
func (c *Consumer) logErrors() {
	for err := range c.client.Errors() {
		c.log.Warn("kafka consumer group error", logger.NewField("error", err))
	}
}
