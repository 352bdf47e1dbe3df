package hub

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	// DefaultBacklog is how many recent messages a new client is sent.
	DefaultBacklog = 20

	clientBuffer    = 64
	broadcastBuffer = 256
)

// Hub maintains the set of active clients and broadcasts messages to them.
// The client set is owned by the Run loop.
type Hub struct {
	name   string
	logger *slog.Logger

	clients map[*Client]bool
	backlog []Message
	maxLog  int

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	count   int
	started atomic.Bool
	running atomic.Bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithBacklog sets how many recent messages are replayed to new clients.
func WithBacklog(n int) Option {
	return func(h *Hub) {
		if n >= 0 {
			h.maxLog = n
		}
	}
}

// New creates a Hub.
func New(name string, opts ...Option) *Hub {
	h := &Hub{
		name:       name,
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		maxLog:     DefaultBacklog,
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("hub", name)
	return h
}

// Run is the hub's main loop. It returns when ctx is cancelled, after closing
// every client. A hub runs once; later calls return immediately.
func (h *Hub) Run(ctx context.Context) {
	if !h.started.CompareAndSwap(false, true) {
		h.logger.Warn("hub already started")
		return
	}
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		close(h.done)
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		h.setCount()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			for _, msg := range h.backlog {
				select {
				case client.send <- msg:
				default:
				}
			}
			h.setCount()
			h.logger.Debug("client connected", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.setCount()
			h.logger.Debug("client disconnected", "clients", len(h.clients))

		case msg := <-h.broadcast:
			h.remember(msg)
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow client")
				}
			}
			h.setCount()
		}
	}
}

func (h *Hub) remember(msg Message) {
	if h.maxLog == 0 {
		return
	}
	h.backlog = append(h.backlog, msg)
	if len(h.backlog) > h.maxLog {
		h.backlog = h.backlog[len(h.backlog)-h.maxLog:]
	}
}

func (h *Hub) setCount() {
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

// Broadcast queues msg for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping message")
	}
}

// Publish encodes and broadcasts an event.
func (h *Hub) Publish(e Event) error {
	msg, err := e.Encode()
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// IsRunning reports whether Run is active.
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}

// join registers c, or closes it right away if the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		close(c.send)
		return false
	}
}

// leave unregisters c unless the hub has already stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
