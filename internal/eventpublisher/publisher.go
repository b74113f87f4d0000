// Package eventpublisher publishes ledger domain events to kafka.
package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/go-petr/pet-points/pkg/configpkg"
)

// ErrNoBrokers indicates that a kafka publisher was requested without brokers.
var ErrNoBrokers = errors.New("no kafka brokers configured")

// Writer is the part of kafka.Writer used by the publisher.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes JSON encoded events to a single kafka topic.
type KafkaPublisher struct {
	writer Writer
}

// NewKafkaPublisher returns a publisher writing to the given topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}), nil
}

// NewKafkaPublisherWithWriter returns a publisher on top of an existing writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish encodes the event and writes it with the given key.
// The event type name is carried in the "type" header.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventType(event))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// Publisher is implemented by KafkaPublisher and NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// New returns a kafka publisher when brokers are configured and a NopPublisher otherwise.
func New(config configpkg.Config) (Publisher, error) {
	brokers := config.Brokers()
	if len(brokers) == 0 {
		return NopPublisher{}, nil
	}

	return NewKafkaPublisher(brokers, config.KafkaTopic)
}

// EventType returns the name of the event type without its package.
func EventType(event any) string {
	name := fmt.Sprintf("%T", event)

	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}

	return name
}
