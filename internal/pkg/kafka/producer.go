package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"tracking-service/internal/pkg/config"
	"tracking-service/pkg/logger"
)

var ProducerMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_producer_messages_total",
		Help: "Messages handed to the Kafka producer by result",
	},
	[]string{"topic", "result"},
)

// Producer асинхронный продюсер в один топик. Ошибки доставки только логируются.
type Producer struct {
	log      logger.Logger
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
}

func newProducerSaramaConfig(cfg *config.Kafka) (*sarama.Config, error) {
	saramaConfig, err := baseSaramaConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, err
	}

	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true
	// ключ сообщения публичный токен, события одной доставки идут в одну партицию
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Producer.Flush.Frequency = cfg.Sarama.ProducerFlushFrequency

	return saramaConfig, nil
}

func NewProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka) (*Producer, error) {
	brokers := cfg.BrokerList()

	saramaConfig, err := newProducerSaramaConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", cfg.Topic),
	)

	if err := waitForBroker(ctx, kafkaLog, brokers, cfg.Topic, saramaConfig); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewAsyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create async producer: %w", err)
	}

	return NewProducerFrom(kafkaLog, producer, cfg.Topic), nil
}

// NewProducerFrom оборачивает готовый sarama.AsyncProducer.
func NewProducerFrom(log logger.Logger, producer sarama.AsyncProducer, topic string) *Producer {
	p := &Producer{
		log:      log,
		producer: producer,
		topic:    topic,
	}

	p.wg.Add(1)
	go p.drainErrors()

	return p
}

// Send ставит сообщение в очередь продюсера. Ключ задаёт партицию, поэтому
// события одной доставки сохраняют порядок.
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	select {
	case p.producer.Input() <- msg:
		ProducerMessagesTotal.WithLabelValues(p.topic, "queued").Inc()
		return nil
	case <-ctx.Done():
		ProducerMessagesTotal.WithLabelValues(p.topic, "canceled").Inc()
		return fmt.Errorf("enqueue kafka message: %w", ctx.Err())
	}
}

// Close дожидается отправки буферизованных сообщений.
func (p *Producer) Close() error {
	p.producer.AsyncClose()
	p.wg.Wait()
	return nil
}

func (p *Producer) drainErrors() {
	defer p.wg.Done()

	for err := range p.producer.Errors() {
		ProducerMessagesTotal.WithLabelValues(p.topic, "failed").Inc()
		p.log.Error("kafka produce failed",
			logger.NewField("error", err.Err),
			logger.NewField("topic", err.Msg.Topic),
		)
	}
}
