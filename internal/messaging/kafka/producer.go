package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer представляет Kafka producer для публикации событий
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// NewProducer создает новый Kafka producer
func NewProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = "shop-checkout"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1 // обязательно для idempotent producer

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return NewProducerWithClient(producer, nil), nil
}

// NewProducerWithClient оборачивает готовый sarama.SyncProducer (например, mocks.SyncProducer в тестах)
func NewProducerWithClient(producer sarama.SyncProducer, logger *log.Entry) *Producer {
	if logger == nil {
		logger = log.WithField("component", "kafka-producer")
	}
	return &Producer{producer: producer, logger: logger}
}

// PublishEvent публикует событие в Kafka
func (p *Producer) PublishEvent(topic string, key string, event interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close закрывает producer
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

// CheckoutPublisher публикует события оформления в заданный topic.
type CheckoutPublisher struct {
	producer *Producer
	topic    string
}

// NewCheckoutPublisher создаёт паблишер событий оформления. Пустой topic заменяется на TopicCheckoutEvents.
func NewCheckoutPublisher(producer *Producer, topic string) *CheckoutPublisher {
	if topic == "" {
		topic = TopicCheckoutEvents
	}
	return &CheckoutPublisher{producer: producer, topic: topic}
}

// Publish отправляет событие, используя ID покупателя как ключ партиционирования,
// чтобы события одного покупателя сохраняли порядок.
func (p *CheckoutPublisher) Publish(event *CheckoutEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka checkout publisher is not initialized")
	}
	if event == nil {
		return fmt.Errorf("checkout event is nil")
	}
	return p.producer.PublishEvent(p.topic, event.CustomerID, event)
}

// Topic возвращает topic, в который пишет паблишер.
func (p *CheckoutPublisher) Topic() string { return p.topic }
