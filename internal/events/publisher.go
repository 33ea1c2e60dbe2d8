package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/SAP-F-2025/skilltree-service/internal/config"
	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

// EventPublisher publishes domain events after the owning transaction commits
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// WatermillEventPublisher serializes events as JSON watermill messages
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    utils.Logger
}

func NewWatermillEventPublisher(publisher message.Publisher, logger utils.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{publisher: publisher, logger: logger}
}

// NewKafkaEventPublisher connects a synchronous Kafka producer to brokers
func NewKafkaEventPublisher(brokers []string, logger utils.Logger) (*WatermillEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, NewWatermillLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return NewWatermillEventPublisher(publisher, logger), nil
}

// NewGoChannelEventPublisher publishes in process. The returned pubsub can
// be used to subscribe to the same topics.
func NewGoChannelEventPublisher(logger utils.Logger) (*WatermillEventPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, NewWatermillLogger(logger))

	return NewWatermillEventPublisher(pubSub, logger), pubSub
}

func (p *WatermillEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "topic", topic, "event_type", event.Type, "event_id", event.ID)
	return nil
}

func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}

// NoopEventPublisher drops every event
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(ctx context.Context, topic string, event *Event) error { return nil }
func (NoopEventPublisher) Close() error                                                  { return nil }

// NewEventPublisher builds the publisher selected by configuration
func NewEventPublisher(cfg config.EventsConfig, logger utils.Logger) (EventPublisher, error) {
	switch cfg.Backend {
	case config.EventsKafka:
		return NewKafkaEventPublisher(cfg.KafkaBrokers, logger)
	case config.EventsNone:
		return NoopEventPublisher{}, nil
	case config.EventsGoChannel, "":
		publisher, _ := NewGoChannelEventPublisher(logger)
		return publisher, nil
	default:
		return nil, fmt.Errorf("unsupported events backend %q", cfg.Backend)
	}
}
