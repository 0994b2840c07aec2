package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"chat_backend/internal/feature/chat/domain/entity"
	"chat_backend/internal/feature/chat/transport/http/dto"
)

// Registry is the process-wide map from user identifier to the set of live
// connections for that user (a user's "room"). It is the only component that
// mutates live-connection state; callers get register/unregister/fanout and
// never raw iteration.
//
// Critical sections are map operations plus non-blocking channel sends, so the
// single mutex stays uncontended even across unrelated identifiers.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *slog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log,
	}
}

// Register adds a connection under the identifier's room. Distinct devices of
// the same user are distinct handles and are never deduplicated.
func (r *Registry) Register(userID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[userID]
	if !ok {
		room = make(map[*Client]struct{})
		r.rooms[userID] = room
	}
	room[c] = struct{}{}
}

// Unregister removes exactly that handle and drops the room when it becomes
// empty, so disconnected users never leak registry space. It also stops the
// client's write pump. Safe to call for a handle that was already removed.
func (r *Registry) Unregister(userID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[userID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(r.rooms, userID)
	}
	c.stop()
}

// Fanout queues the payload to every live connection under the identifier.
// Zero live connections is a no-op, not an error: the message already exists
// durably and is retrievable via the history API. A connection whose buffer is
// full is cut loose; its read loop will fail and unregister it.
func (r *Registry) Fanout(userID string, payload []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for c := range r.rooms[userID] {
		if !c.enqueue(payload) {
			r.log.Warn("dropping slow connection",
				"user_id", userID,
				"session_id", c.sessionID)
			_ = c.conn.Close()
		}
	}
}

// NotifyNewMessage implements the chat usecase's Notifier: it renders the
// new_message frame once and fans it out to the identifier's room.
func (r *Registry) NotifyNewMessage(userID string, msg *entity.Message) {
	payload, err := json.Marshal(newMessageFrame{
		Type:    frameTypeNewMessage,
		Message: dto.FromMessage(*msg),
	})
	if err != nil {
		r.log.Error("failed to encode new_message frame", "error", err)
		return
	}
	r.Fanout(userID, payload)
}
