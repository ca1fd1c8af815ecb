package session

import (
	"fmt"
	"sync"
)

// EventKind names what changed in a session.
type EventKind string

// Session change kinds.
const (
	EventRegenerated   EventKind = "regenerated"
	EventDescribed     EventKind = "described"
	EventDoors         EventKind = "doors"
	EventRenumbered    EventKind = "renumbered"
	EventTemplate      EventKind = "template"
	EventRoomAdded     EventKind = "room_added"
	EventRoomMoved     EventKind = "room_moved"
	EventRoomDeleted   EventKind = "room_deleted"
	EventLevelAdded    EventKind = "level_added"
	EventLevelRemoved  EventKind = "level_removed"
	EventLevelSelected EventKind = "level_selected"
	EventImported      EventKind = "imported"
)

// Event is published to subscribers after a session changes.
type Event struct {
	SessionID string    `json:"sessionId"`
	Kind      EventKind `json:"kind"`
	Level     int       `json:"level"`
	Rooms     int       `json:"rooms"`
}

// Subscriber receives encoded session events on a buffered channel, bridging
// a session to a secondary view such as the player map.
type Subscriber struct {
	id     string
	events chan []byte
	mu     sync.Mutex
	closed bool
}

// NewSubscriber creates a Subscriber with the given buffer size.
//
// Precondition: id must be non-empty.
// Postcondition: Returns a Subscriber with an open events channel.
func NewSubscriber(id string, bufferSize int) *Subscriber {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Subscriber{
		id:     id,
		events: make(chan []byte, bufferSize),
	}
}

// ID returns the subscriber's identifier.
func (sub *Subscriber) ID() string {
	return sub.id
}

// Push enqueues data without blocking.
//
// Postcondition: Data is enqueued, or an error if the subscriber is closed or full.
func (sub *Subscriber) Push(data []byte) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.closed {
		return fmt.Errorf("subscriber %s is closed", sub.id)
	}
	select {
	case sub.events <- data:
		return nil
	default:
		return fmt.Errorf("subscriber %s event buffer full", sub.id)
	}
}

// Events returns the read-only events channel.
func (sub *Subscriber) Events() <-chan []byte {
	return sub.events
}

// Close marks the subscriber closed and closes the events channel.
//
// Postcondition: Further Push calls return an error. Close is idempotent.
func (sub *Subscriber) Close() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if !sub.closed {
		sub.closed = true
		close(sub.events)
	}
	return nil
}

// IsClosed reports whether the subscriber has been closed.
func (sub *Subscriber) IsClosed() bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.closed
}
