package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"taskhub/domain/ports"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
)

// ActivityPublisher publishes activity events into the JetStream stream.
type ActivityPublisher struct {
	js jetstream.JetStream
}

func NewActivityPublisher(js jetstream.JetStream) *ActivityPublisher {
	return &ActivityPublisher{js: js}
}

// PublishActivity sends the event to activity.{user_id}.
func (p *ActivityPublisher) PublishActivity(ctx context.Context, event *ports.ActivityEvent) error {
	if event == nil {
		return fmt.Errorf("activity event cannot be nil")
	}
	if event.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}

	data, err := json.Marshal(toMessage(event))
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	subject := ActivitySubject(event.UserID)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}
	return nil
}

func ActivitySubject(userID uuid.UUID) string {
	return fmt.Sprintf("%s.%s", SubjectActivity, userID)
}

func toMessage(event *ports.ActivityEvent) ActivityMessage {
	return ActivityMessage{
		UserID:     event.UserID.String(),
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID.String(),
		OccurredAt: event.OccurredAt.UnixMilli(),
	}
}

var _ ports.ActivityPublisherPort = (*ActivityPublisher)(nil)
