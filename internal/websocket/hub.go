// internal/websocket/hub.go
package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"khidma-service/internal/domain/realtime"
	"khidma-service/internal/pkg/jwt"
	"khidma-service/internal/pkg/session"

	"go.uber.org/zap"
)

// Hub fans platform events out to connected admin dashboards. Only admin
// tokens may attach; client/consultant traffic never reaches this feed.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	events     chan *realtime.Event
	done       chan struct{}

	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
	logger         *zap.Logger
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		events:         make(chan *realtime.Event, 256),
		done:           make(chan struct{}),
		jwtVerifier:    jwtVerifier,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// Authenticate validates the handshake token and checks the backing admin
// session is still live.
func (h *Hub) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	if !claims.IsAdmin() {
		return nil, fmt.Errorf("admin feed requires an admin token")
	}

	exists, err := h.sessionManager.SessionExists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("session no longer active")
	}

	return claims, nil
}

// Publish queues an event for all connected admins. Drops the event when
// the buffer is full rather than blocking the producing request.
func (h *Hub) Publish(eventType realtime.EventType, payload interface{}) {
	ev := &realtime.Event{
		Type:    eventType,
		Payload: payload,
		At:      time.Now().UTC(),
	}

	select {
	case h.events <- ev:
	default:
		h.logger.Warn("event feed buffer full, dropping event",
			zap.String("type", string(eventType)),
		)
	}
}

// Run owns the client set. Must be started once, before any connection is
// accepted. Closing done releases any client pump still trying to register
// or unregister after shutdown.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				client.close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("admin feed client connected",
				zap.Int64("identity_id", client.identityID),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()

		case ev := <-h.events:
			h.mu.RLock()
			for client := range h.clients {
				client.enqueue(ev)
			}
			h.mu.RUnlock()
		}
	}
}
