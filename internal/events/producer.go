package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	OrderCreatedTopic = "order.created"
)

type OrderCreatedEvent struct {
	OrderID            int64           `json:"order_id"`
	CustomerIdentifier string          `json:"customer_identifier"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	ItemCount          int             `json:"item_count"`
	CreatedAt          time.Time       `json:"created_at"`
	EventTime          time.Time       `json:"event_time"`
}

// Publisher announces committed orders to downstream consumers.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	Close() error
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

// NewKafkaProducer dials the brokers with acks from all in-sync replicas.
func NewKafkaProducer(brokers []string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewKafkaProducerWith(producer, logger), nil
}

// NewKafkaProducerWith wraps an existing sarama producer.
func NewKafkaProducerWith(producer sarama.SyncProducer, logger *logrus.Logger) *KafkaProducer {
	return &KafkaProducer{
		producer: producer,
		logger:   logger,
	}
}

func (p *KafkaProducer) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	event.EventTime = time.Now().UTC()

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: OrderCreatedTopic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.OrderID, 10)),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("order_id", event.OrderID).Error("Failed to send message to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":     OrderCreatedTopic,
		"partition": partition,
		"offset":    offset,
		"order_id":  event.OrderID,
	}).Info("Event published to Kafka")

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
