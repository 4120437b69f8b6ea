// Package realtime fans diary changes out to every open stream of the same
// user.
package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"calorie-tracker/internal/logger"

	"go.uber.org/zap"
)

const (
	EventConnected      = "connected"
	EventEntryPending   = "entry_pending"
	EventEntryCreated   = "entry_created"
	EventEntryUpdated   = "entry_updated"
	EventEntryDeleted   = "entry_deleted"
	EventProfileUpdated = "profile_updated"
	EventSyncFailed     = "sync_failed"

	defaultBuffer = 32
)

type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Publisher is what services need from the hub.
type Publisher interface {
	Publish(userID, eventType string, data any)
}

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

type Subscription struct {
	C <-chan Event

	ch     chan Event
	userID string
	hub    *Hub
	once   sync.Once
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(userID string) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, userID: userID, hub: h}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Close detaches the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set := h.subs[s.userID]; set != nil {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.userID)
			}
		}
		close(s.ch)
		h.mu.Unlock()
	})
}

// Publish delivers to every subscriber of userID in publish order. A
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(userID, eventType string, data any) {
	ev := Event{Type: eventType, Data: data, At: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[userID] {
		select {
		case sub.ch <- ev:
		default:
			logger.Warn("realtime subscriber lagging, event dropped",
				zap.String("user_id", userID),
				zap.String("event", eventType),
			)
		}
	}
}

func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// WriteSSE encodes one event in text/event-stream framing.
func WriteSSE(w io.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}
