/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrStaleHandle is returned when an emit targets a handle whose connection is
// gone or whose outbound buffer is full. Realtime delivery is advisory, so
// callers treat this as a skipped delivery, never as a request failure.
var ErrStaleHandle = errors.New("stale realtime handle")

// Envelope is the wire frame pushed to clients: a named event with a payload.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is the process-wide realtime registry. Each connected client gets a
// connection-scoped handle; a user may hold several (one per open tab).
// The hub is the single addressable emitter per deployment; the optional
// Bridge re-broadcasts emits across instances through a shared pub/sub
// backbone.
type Hub struct {
	mu       sync.RWMutex
	handles  map[string]*Client            // handle -> client
	byUser   map[string]map[string]*Client // user id -> handle -> client
	register chan *Client
	drop     chan *Client

	logger *slog.Logger
	bridge *Bridge // nil unless cross-instance delivery is configured
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		handles:  make(map[string]*Client),
		byUser:   make(map[string]map[string]*Client),
		register: make(chan *Client),
		drop:     make(chan *Client),
		logger:   logger,
	}
}

// AttachBridge wires a pub/sub bridge in before Run is called.
func (h *Hub) AttachBridge(b *Bridge) {
	h.bridge = b
	b.hub = h
}

// Run owns the registration lifecycle. It returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.bridge != nil {
		go h.bridge.run(ctx)
	}
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.handles[client.handle] = client
			if _, ok := h.byUser[client.userID]; !ok {
				h.byUser[client.userID] = make(map[string]*Client)
			}
			h.byUser[client.userID][client.handle] = client
			h.mu.Unlock()
			h.logger.Info("realtime client connected", "user", client.userID, "handle", client.handle)

		case client := <-h.drop:
			h.mu.Lock()
			if _, ok := h.handles[client.handle]; ok {
				delete(h.handles, client.handle)
				close(client.send)
			}
			if set, ok := h.byUser[client.userID]; ok {
				delete(set, client.handle)
				if len(set) == 0 {
					delete(h.byUser, client.userID)
				}
			}
			h.mu.Unlock()
			h.logger.Info("realtime client disconnected", "user", client.userID, "handle", client.handle)

		case <-ctx.Done():
			return
		}
	}
}

// CurrentHandle resolves a user to a live handle. The second return is false
// when the user holds no connection right now.
func (h *Hub) CurrentHandle(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set, ok := h.byUser[userID]
	if !ok || len(set) == 0 {
		return "", false
	}
	for handle := range set {
		return handle, true
	}
	return "", false
}

// Emit pushes a named event to one handle. Delivery is fire-and-forget: a full
// outbound buffer drops the frame and reports the handle stale.
func (h *Hub) Emit(ctx context.Context, handle string, event string, payload any) error {
	data, err := json.Marshal(&Envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.handles[handle]
	h.mu.RUnlock()
	if !ok {
		return ErrStaleHandle
	}

	if h.bridge != nil {
		h.bridge.publish(ctx, client.userID, data)
	}

	select {
	case client.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrStaleHandle
	}
}

// deliverToUser fans a raw frame out to every local connection of a user.
// Used by the bridge when another instance emitted for this user.
func (h *Hub) deliverToUser(userID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.byUser[userID] {
		select {
		case client.send <- data:
		default:
		}
	}
}

// Attach registers a fresh connection for a user and returns its client.
// The caller starts the pumps.
func (h *Hub) attach(client *Client) {
	client.handle = uuid.New().String()
	h.register <- client
}
