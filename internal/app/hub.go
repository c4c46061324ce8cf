package app

import "sync"

// Role identifies which front end a subscriber renders.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
	RoleWall   Role = "wall"
)

// Event is one change notification fanned out to subscribers. Events carry
// a per-type ordering guarantee only; cross-type ordering is unspecified,
// so handlers must treat every payload as a full snapshot.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`

	// roles limits delivery; empty means every role.
	roles []Role
	// userID targets a single player; empty means everyone matching roles.
	userID string
}

// To restricts an event to the given roles.
func (e Event) To(roles ...Role) Event {
	e.roles = roles
	return e
}

// ToUser targets an event at one player.
func (e Event) ToUser(userID string) Event {
	e.userID = userID
	e.roles = []Role{RolePlayer}
	return e
}

type subscriber struct {
	ch     chan Event
	role   Role
	userID string
}

// Hub fans change notifications out to connected clients. Slow subscribers
// get their oldest pending event dropped rather than blocking the broadcast.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a client. The caller must invoke the returned cancel
// function to avoid leaks.
func (h *Hub) Subscribe(role Role, userID string) (<-chan Event, func()) {
	sub := &subscriber{
		ch:     make(chan Event, 16),
		role:   role,
		userID: userID,
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Broadcast delivers an event to every matching subscriber.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !matches(ev, sub) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- ev
		}
	}
}

// SubscriberCount reports connected clients, optionally filtered by role.
func (h *Hub) SubscriberCount(role Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for sub := range h.subs {
		if role == "" || sub.role == role {
			n++
		}
	}
	return n
}

func matches(ev Event, sub *subscriber) bool {
	if ev.userID != "" && ev.userID != sub.userID {
		return false
	}
	if len(ev.roles) == 0 {
		return true
	}
	for _, r := range ev.roles {
		if r == sub.role {
			return true
		}
	}
	return false
}
