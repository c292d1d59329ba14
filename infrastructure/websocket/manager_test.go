package websocket

import (
	"context"
	"errors"
	"sync"
	"taskhub/domain/ports"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []Message
	writeErr error
	closed   bool
	written  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{written: make(chan struct{}, 8)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		c.written <- struct{}{}
	}()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, v.(Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) snapshot() ([]Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...), c.closed
}

func waitWrite(t *testing.T, c *fakeConn) {
	t.Helper()
	select {
	case <-c.written:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write")
	}
}

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)
	return m
}

func TestManager_BroadcastReachesEveryConnectionOfUser(t *testing.T) {
	m := startManager(t)
	alice, bob := uuid.New(), uuid.New()
	tab1, tab2, other := newFakeConn(), newFakeConn(), newFakeConn()

	m.RegisterClient(tab1, alice)
	m.RegisterClient(tab2, alice)
	m.RegisterClient(other, bob)
	m.UnregisterClient(newFakeConn())

	if got := m.ConnectionCount(alice); got != 2 {
		t.Fatalf("ConnectionCount = %d, want 2", got)
	}

	m.BroadcastToUser(alice, "ping", "hello")
	waitWrite(t, tab1)
	waitWrite(t, tab2)

	for _, conn := range []*fakeConn{tab1, tab2} {
		msgs, _ := conn.snapshot()
		if len(msgs) != 1 || msgs[0].Type != "ping" {
			t.Errorf("messages = %+v", msgs)
		}
	}
	if msgs, _ := other.snapshot(); len(msgs) != 0 {
		t.Errorf("other user received %+v", msgs)
	}
}

func TestManager_FailedWriteDropsClient(t *testing.T) {
	m := startManager(t)
	user := uuid.New()
	conn := newFakeConn()
	conn.writeErr = errors.New("broken pipe")

	m.RegisterClient(conn, user)
	m.BroadcastToUser(user, "ping", nil)
	waitWrite(t, conn)

	// Unregister is served after the broadcast, so the drop is visible by then.
	m.UnregisterClient(newFakeConn())
	if got := m.ConnectionCount(user); got != 0 {
		t.Errorf("ConnectionCount = %d, want 0", got)
	}
	if _, closed := conn.snapshot(); !closed {
		t.Error("connection not closed")
	}
}

func TestManager_UnregisterClosesConnection(t *testing.T) {
	m := startManager(t)
	user := uuid.New()
	conn := newFakeConn()

	m.RegisterClient(conn, user)
	m.UnregisterClient(conn)
	m.UnregisterClient(newFakeConn())

	if got := m.ConnectionCount(user); got != 0 {
		t.Errorf("ConnectionCount = %d, want 0", got)
	}
	if _, closed := conn.snapshot(); !closed {
		t.Error("connection not closed")
	}
}

func TestManager_CallsAfterShutdownReturn(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	conn := newFakeConn()
	returned := make(chan struct{})
	go func() {
		m.RegisterClient(conn, uuid.New())
		m.UnregisterClient(conn)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("RegisterClient/UnregisterClient blocked after shutdown")
	}
	if _, closed := conn.snapshot(); !closed {
		t.Error("connection registered after shutdown was not closed")
	}
}

func TestActivityBroadcaster_PushesToOwner(t *testing.T) {
	m := startManager(t)
	user := uuid.New()
	conn := newFakeConn()
	m.RegisterClient(conn, user)

	b := NewActivityBroadcaster(m, nil)
	event := &ports.ActivityEvent{UserID: user, Action: "task.created", EntityType: "task", EntityID: uuid.New()}
	if err := b.OnActivity(context.Background(), event); err != nil {
		t.Fatalf("OnActivity: %v", err)
	}
	waitWrite(t, conn)

	msgs, _ := conn.snapshot()
	if len(msgs) != 1 || msgs[0].Type != MessageTypeActivity || msgs[0].Data != event {
		t.Errorf("messages = %+v", msgs)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Errorf("Start without subscriber: %v", err)
	}
}
