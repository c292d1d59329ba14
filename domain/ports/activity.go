package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Activity events - emitted after a mutation has been committed
// ═══════════════════════════════════════════════════════════════════════════════

// ActivityEvent is a plain struct with no transport dependency.
type ActivityEvent struct {
	UserID     uuid.UUID `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   uuid.UUID `json:"entityId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityObserver receives events from services. The emitting operation has
// already succeeded; an observer error is logged by the caller and dropped.
type ActivityObserver interface {
	OnActivity(ctx context.Context, event *ActivityEvent) error
}

// ActivityPublisherPort sends events to the message bus.
type ActivityPublisherPort interface {
	PublishActivity(ctx context.Context, event *ActivityEvent) error
}

type ActivityHandler func(event *ActivityEvent)

// ActivitySubscriberPort listens for events from the message bus.
type ActivitySubscriberPort interface {
	Subscribe(ctx context.Context, handler ActivityHandler) error
	Unsubscribe() error
}
