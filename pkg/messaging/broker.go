package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a lifecycle notification published after a state change commits.
type Event struct {
	ID         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	EntityType string                 `json:"entity_type"`
	EntityID   uuid.UUID              `json:"entity_id"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewEvent(eventType, entityType string, entityID uuid.UUID, payload map[string]interface{}) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Broker publishes events to interested consumers. Publishing is best effort;
// callers must not fail their operation on a publish error.
type Broker interface {
	Publish(ctx context.Context, channel string, event *Event) error
	Close() error
}

// NoopBroker drops all events. Used when no broker is configured.
type NoopBroker struct{}

func (NoopBroker) Publish(ctx context.Context, channel string, event *Event) error { return nil }
func (NoopBroker) Close() error                                                    { return nil }
