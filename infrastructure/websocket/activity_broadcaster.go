package websocket

import (
	"context"
	"sync"
	"taskhub/domain/ports"
	"taskhub/pkg/logger"
)

const MessageTypeActivity = "activity"

// ActivityBroadcaster pushes activity events to the owner's live connections.
// It either subscribes to the message bus (Start) or is registered directly
// as an ActivityObserver when no bus is configured.
type ActivityBroadcaster struct {
	manager *Manager
	sub     ports.ActivitySubscriberPort

	mu      sync.Mutex
	running bool
}

func NewActivityBroadcaster(manager *Manager, sub ports.ActivitySubscriberPort) *ActivityBroadcaster {
	return &ActivityBroadcaster{
		manager: manager,
		sub:     sub,
	}
}

func (b *ActivityBroadcaster) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running || b.sub == nil {
		return nil
	}
	if err := b.sub.Subscribe(ctx, b.push); err != nil {
		return err
	}
	b.running = true
	logger.Info("Activity broadcaster started")
	return nil
}

func (b *ActivityBroadcaster) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}
	b.running = false
	return b.sub.Unsubscribe()
}

func (b *ActivityBroadcaster) OnActivity(ctx context.Context, event *ports.ActivityEvent) error {
	b.push(event)
	return nil
}

func (b *ActivityBroadcaster) push(event *ports.ActivityEvent) {
	if event == nil {
		return
	}
	b.manager.BroadcastToUser(event.UserID, MessageTypeActivity, event)
}

var _ ports.ActivityObserver = (*ActivityBroadcaster)(nil)
