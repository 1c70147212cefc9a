package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/trogers1052/insider-feed/internal/models"
)

// Producer publishes extracted trade batches to a Kafka topic for
// downstream services (alerting, analytics)
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer creates a new Kafka trade producer
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_8_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// PublishTrades publishes one event per batch, keyed by accession number
// so all trades from one filing land on the same partition
func (p *Producer) PublishTrades(_ context.Context, trades []models.NormalizedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	event := models.TradeEvent{
		EventType:     "insider_trade",
		Source:        "insider-feed",
		SchemaVersion: "1.0",
		Timestamp:     time.Now().UTC(),
		Data:          trades,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal trade event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(trades[0].AccessionNo),
		Value: sarama.ByteEncoder(value),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send trade event: %w", err)
	}

	return nil
}

// Close shuts the producer down gracefully
func (p *Producer) Close() error {
	return p.producer.Close()
}
