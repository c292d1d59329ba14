package websocket

import (
	"context"
	"sync"
	"taskhub/pkg/logger"

	"github.com/google/uuid"
)

// Conn is the part of a websocket connection the manager writes to.
// *websocket.Conn from gofiber/websocket satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn   Conn
	userID uuid.UUID
}

type outbound struct {
	userID  uuid.UUID
	message Message
}

// Manager tracks live connections per user. A user may hold several
// connections (one per open tab); every one of them receives the user's
// messages.
type Manager struct {
	clients map[Conn]uuid.UUID
	users   map[uuid.UUID]map[Conn]struct{}
	mu      sync.RWMutex

	register   chan client
	unregister chan Conn
	broadcast  chan outbound
	done       chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[Conn]uuid.UUID),
		users:      make(map[uuid.UUID]map[Conn]struct{}),
		register:   make(chan client),
		unregister: make(chan Conn),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every remaining connection.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			close(m.done)
			return

		case c := <-m.register:
			m.add(c)
			logger.Debug("WebSocket client connected", "user_id", c.userID)

		case conn := <-m.unregister:
			if m.remove(conn) {
				conn.Close()
			}

		case msg := <-m.broadcast:
			for _, conn := range m.connsFor(msg.userID) {
				if err := conn.WriteJSON(msg.message); err != nil {
					logger.Warn("WebSocket write failed, dropping client", "user_id", msg.userID, "error", err)
					if m.remove(conn) {
						conn.Close()
					}
				}
			}
		}
	}
}

// RegisterClient hands conn to the run loop. After shutdown the connection
// is closed straight away.
func (m *Manager) RegisterClient(conn Conn, userID uuid.UUID) {
	select {
	case m.register <- client{conn: conn, userID: userID}:
	case <-m.done:
		conn.Close()
	}
}

func (m *Manager) UnregisterClient(conn Conn) {
	select {
	case m.unregister <- conn:
	case <-m.done:
	}
}

// BroadcastToUser queues a message for every connection of userID. When the
// queue is full the message is dropped rather than blocking the caller.
func (m *Manager) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	select {
	case m.broadcast <- outbound{userID: userID, message: Message{Type: messageType, Data: data}}:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping message", "user_id", userID, "type", messageType)
	}
}

func (m *Manager) ConnectionCount(userID uuid.UUID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userID])
}

func (m *Manager) add(c client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients[c.conn] = c.userID
	if m.users[c.userID] == nil {
		m.users[c.userID] = make(map[Conn]struct{})
	}
	m.users[c.userID][c.conn] = struct{}{}
}

func (m *Manager) remove(conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, ok := m.clients[conn]
	if !ok {
		return false
	}
	delete(m.clients, conn)
	delete(m.users[userID], conn)
	if len(m.users[userID]) == 0 {
		delete(m.users, userID)
	}
	return true
}

func (m *Manager) connsFor(userID uuid.UUID) []Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := make([]Conn, 0, len(m.users[userID]))
	for conn := range m.users[userID] {
		conns = append(conns, conn)
	}
	return conns
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for conn := range m.clients {
		conn.Close()
	}
	m.clients = make(map[Conn]uuid.UUID)
	m.users = make(map[uuid.UUID]map[Conn]struct{})
}
