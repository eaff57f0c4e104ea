package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const eventSource = "exam-classroom-service"

// Event is the envelope published to the message broker. Data carries the
// type-specific payload.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Event types emitted by the classroom services.
const (
	EventAssignmentCreated = "classroom.assignment_created"
	EventAssignmentDueSoon = "classroom.assignment_due_soon"
	EventSubmissionGraded  = "classroom.submission_graded"
)

// Payloads carried in Event.Data.

type AssignmentCreatedEvent struct {
	AssignmentID uint       `json:"assignment_id"`
	ClassroomID  uint       `json:"classroom_id"`
	Title        string     `json:"title"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	StudentIDs   []uint     `json:"student_ids"`
}

type AssignmentDueSoonEvent struct {
	AssignmentID uint      `json:"assignment_id"`
	ClassroomID  uint      `json:"classroom_id"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"due_at"`
	StudentIDs   []uint    `json:"student_ids"`
}

type SubmissionGradedEvent struct {
	AssignmentID uint    `json:"assignment_id"`
	UserID       uint    `json:"user_id"`
	Score        int     `json:"score"`
	Total        int     `json:"total"`
	Percentage   float64 `json:"percentage"`
	Late         bool    `json:"late"`
}

// EventPublisher abstracts the broker so services can run against Kafka in
// production and an in-memory recorder in tests.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// ===== KAFKA =====

type KafkaEventPublisher struct {
	publisher *kafka.Publisher
	logger    *slog.Logger
}

func NewKafkaEventPublisher(brokers []string, logger *slog.Logger) (*KafkaEventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish event %s to %s: %w", event.Type, topic, err)
	}

	p.logger.Debug("Event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", topic)
	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// ===== MOCK =====

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	logger *slog.Logger
	events []*Event
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (p *MockEventPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	p.events = append(p.events, event)
	p.logger.Debug("Mock event recorded",
		"event_type", event.Type,
		"topic", topic)
	return nil
}

func (p *MockEventPublisher) Close() error {
	return nil
}

func (p *MockEventPublisher) GetPublishedEvents() []*Event {
	return p.events
}

func (p *MockEventPublisher) ClearEvents() {
	p.events = nil
}
