package events

import (
	"context"
	"sync"

	"github.com/SAP-F-2025/skilltree-service/internal/utils"
)

// MockEventPublisher records published events in memory
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	topics []string
	err    error
	logger utils.Logger
}

func NewMockEventPublisher(logger utils.Logger) *MockEventPublisher {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.events = append(m.events, event)
	m.topics = append(m.topics, topic)
	m.logger.Debug("Mock event recorded", "topic", topic, "event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// FailWith makes every later Publish return err
func (m *MockEventPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// EventsOfType returns recorded events with the given type
func (m *MockEventPublisher) EventsOfType(eventType string) []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Event
	for _, e := range m.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockEventPublisher) GetTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.topics))
	copy(out, m.topics)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.topics = nil
}
