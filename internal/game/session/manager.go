package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeonmap/internal/game/dice"
	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Manager tracks all open sessions and their event subscribers.
// All methods are safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session               // session id → session
	subscribers map[string]map[string]*Subscriber // session id → subscriber id → subscriber
	deps        Deps
	grid        dungeon.Grid
}

// NewManager creates an empty Manager whose sessions share deps and grid.
//
// Precondition: every field of deps is non-nil.
func NewManager(deps Deps, grid dungeon.Grid) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		subscribers: make(map[string]map[string]*Subscriber),
		deps:        deps,
		grid:        grid,
	}
}

// Create opens a new session on an empty document named name. A zero seed
// draws from the crypto source; any other seed makes the session reproducible.
//
// Postcondition: Returns the session, or an error if params are invalid.
func (m *Manager) Create(name string, params dungeon.Params, seed uint64) (*Session, error) {
	return m.Open(dungeon.NewDocument(name), params, seed)
}

// Open registers a session on an existing document.
func (m *Manager) Open(doc *dungeon.Document, params dungeon.Params, seed uint64) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(doc.Levels) == 0 {
		return nil, fmt.Errorf("document %q has no levels", doc.Name)
	}
	id := uuid.NewString()
	sess := New(id, doc, params, m.grid, dice.NewSource(seed), m.deps)
	sess.notify = m.publish

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	m.deps.Logger.Info("session opened", zap.String("session", id), zap.String("document", doc.Name), zap.Uint64("seed", seed))
	return sess, nil
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Close removes a session and closes its subscribers.
//
// Postcondition: Returns ErrSessionNotFound if id is unknown.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	for _, sub := range m.subscribers[id] {
		_ = sub.Close()
	}
	delete(m.subscribers, id)
	delete(m.sessions, id)
	return nil
}

// Subscribe attaches a new subscriber to session id.
func (m *Manager) Subscribe(id string, bufferSize int) (*Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	sub := NewSubscriber(uuid.NewString(), bufferSize)
	if m.subscribers[id] == nil {
		m.subscribers[id] = make(map[string]*Subscriber)
	}
	m.subscribers[id][sub.ID()] = sub
	return sub, nil
}

// Unsubscribe detaches and closes a subscriber. Unknown ids are ignored.
func (m *Manager) Unsubscribe(sessionID, subscriberID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.subscribers[sessionID]
	if !ok {
		return
	}
	if sub, ok := subs[subscriberID]; ok {
		_ = sub.Close()
		delete(subs, subscriberID)
	}
	if len(subs) == 0 {
		delete(m.subscribers, sessionID)
	}
}

func (m *Manager) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		m.deps.Logger.Error("marshaling session event", zap.Error(err))
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subscribers[ev.SessionID] {
		if err := sub.Push(data); err != nil {
			m.deps.Logger.Warn("push to subscriber failed",
				zap.String("session", ev.SessionID),
				zap.String("subscriber", sub.ID()),
				zap.Error(err),
			)
		}
	}
}

// IDs returns the ids of all open sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
