package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventRoomCheckedIn     = "room_checked_in"
	EventRoomCheckedOut    = "room_checked_out"
	EventRoomStatusChanged = "room_status_changed"
	EventBookingForced     = "booking_forced"
	EventBookingRecorded   = "booking_recorded"
)

// RoomEventPayload describes the minimal room snapshot for event consumers.
type RoomEventPayload struct {
	RoomID     int64  `json:"room_id"`
	RoomNumber string `json:"room_number"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	GuestName  string `json:"guest_name,omitempty"`
	Trigger    string `json:"trigger,omitempty"`
	Forced     bool   `json:"forced,omitempty"`
	ChangedBy  string `json:"changed_by,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
