package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"taskhub/domain/ports"
	"taskhub/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// ActivitySubscriber listens on activity.> with core pub/sub. Live feeds
// only care about new events, so no durable consumer is created.
type ActivitySubscriber struct {
	conn *nats.Conn

	mu  sync.Mutex
	sub *nats.Subscription
}

func NewActivitySubscriber(conn *nats.Conn) *ActivitySubscriber {
	return &ActivitySubscriber{conn: conn}
}

func (s *ActivitySubscriber) Subscribe(ctx context.Context, handler ports.ActivityHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		return fmt.Errorf("activity subscriber already running")
	}

	sub, err := s.conn.Subscribe(SubjectActivity+".>", func(msg *nats.Msg) {
		event, err := fromMessage(msg.Data)
		if err != nil {
			logger.Warn("Dropping malformed activity message", "subject", msg.Subject, "error", err)
			return
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Activity handler panicked", "error", r)
			}
		}()
		handler(event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to activity: %w", err)
	}
	s.sub = sub

	logger.InfoContext(ctx, "NATS activity subscriber started", "subject", SubjectActivity+".>")
	return nil
}

func (s *ActivitySubscriber) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub == nil {
		return nil
	}
	err := s.sub.Unsubscribe()
	s.sub = nil
	logger.Info("NATS activity subscriber stopped")
	return err
}

func fromMessage(data []byte) (*ports.ActivityEvent, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	entityID, err := uuid.Parse(msg.EntityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity_id: %w", err)
	}
	return &ports.ActivityEvent{
		UserID:     userID,
		Action:     msg.Action,
		EntityType: msg.EntityType,
		EntityID:   entityID,
		OccurredAt: time.UnixMilli(msg.OccurredAt).UTC(),
	}, nil
}

var _ ports.ActivitySubscriberPort = (*ActivitySubscriber)(nil)
