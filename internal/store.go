package internal

import (
	"fmt"
	"sync"
	"time"
)

// Store is the in-memory session store. It is explicitly constructed around a
// StorageBackend and writes the full state back after every effective
// mutation. Operations on unknown session ids are no-ops: no state change and
// no persistence write. A mutex serializes mutations so concurrent completion
// callbacks (for example two in-flight chat turns) apply atomically, and the
// read accessors hand out session copies so callers can render concurrently
// with an in-flight turn.
type Store struct {
	mu      sync.RWMutex
	state   StoreState
	backend StorageBackend
	now     func() time.Time
}

// NewStore creates a store rehydrated from the backend's persisted state
func NewStore(backend StorageBackend) *Store {
	return &Store{
		state:   backend.LoadState(),
		backend: backend,
		now:     time.Now,
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// persist writes the current state through the backend. Write failures are
// logged and swallowed: the in-memory state stays authoritative.
func (s *Store) persist() {
	if err := s.backend.SaveState(s.state); err != nil {
		LogWarn("Failed to persist sessions: %v", err)
	}
}

// CreateSession inserts a new empty session, appends it to the order list,
// selects it, and returns its id. When name is empty a sequential placeholder
// ("Session N") is used.
func (s *Store) CreateSession(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := NewID("session")
	if name == "" {
		name = fmt.Sprintf("Session %d", len(s.state.Order)+1)
	}
	now := s.timestamp()
	s.state.Map[id] = &Session{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []SessionMessage{},
		Tools:     []SessionToolLog{},
		Logs:      []SessionLogEntry{},
	}
	s.state.Order = append(s.state.Order, id)
	s.state.CurrentID = id
	s.persist()
	return id
}

// EnsureSession inserts an empty session under a caller-supplied id when it
// is not already present, without changing the current selection. It is used
// to adopt server-assigned session ids echoed back by the chat endpoint.
// Reports whether a session was created.
func (s *Store) EnsureSession(id, name string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Map[id]; ok {
		return false
	}
	if name == "" {
		name = fmt.Sprintf("Session %d", len(s.state.Order)+1)
	}
	now := s.timestamp()
	s.state.Map[id] = &Session{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []SessionMessage{},
		Tools:     []SessionToolLog{},
		Logs:      []SessionLogEntry{},
	}
	s.state.Order = append(s.state.Order, id)
	s.persist()
	return true
}

// SelectSession makes id the current session. Unknown ids are ignored.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Map[id]; !ok {
		return
	}
	if s.state.CurrentID == id {
		return
	}
	s.state.CurrentID = id
	s.persist()
}

// DeleteSession removes a session from the mapping and the order list. When
// the deleted session was current, selection falls back to the first
// remaining session in order, or none.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Map[id]; !ok {
		return
	}
	delete(s.state.Map, id)

	order := make([]string, 0, len(s.state.Order))
	for _, entry := range s.state.Order {
		if entry != id {
			order = append(order, entry)
		}
	}
	s.state.Order = order

	if s.state.CurrentID == id {
		if len(order) > 0 {
			s.state.CurrentID = order[0]
		} else {
			s.state.CurrentID = ""
		}
	}
	s.persist()
}

// ResetSessions replaces the entire state with the empty state. Irreversible.
func (s *Store) ResetSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = EmptyState()
	s.persist()
}

// RenameSession updates a session's display name. Unknown ids and unchanged
// names are strict no-ops: updatedAt is untouched and nothing is written.
func (s *Store) RenameSession(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.state.Map[id]
	if !ok || session.Name == name {
		return
	}
	session.Name = name
	session.UpdatedAt = s.timestamp()
	s.persist()
}

// AppendMessage appends one message to a session. Unknown ids are ignored.
func (s *Store) AppendMessage(id string, message SessionMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.state.Map[id]
	if !ok {
		return
	}
	session.Messages = append(session.Messages, message)
	session.UpdatedAt = s.timestamp()
	s.persist()
}

// AppendToolLogs appends tool invocation records to a session. An empty input
// list is a strict no-op: no updatedAt bump, no persistence write.
func (s *Store) AppendToolLogs(id string, logs []SessionToolLog) {
	if len(logs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.state.Map[id]
	if !ok {
		return
	}
	session.Tools = append(session.Tools, logs...)
	session.UpdatedAt = s.timestamp()
	s.persist()
}

// AppendLogs appends diagnostic log entries to a session. An empty input list
// is a strict no-op.
func (s *Store) AppendLogs(id string, entries []SessionLogEntry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.state.Map[id]
	if !ok {
		return
	}
	session.Logs = append(session.Logs, entries...)
	session.UpdatedAt = s.timestamp()
	s.persist()
}

// cloneSession copies a session, including its record slices, so callers
// never alias state the mutex still guards.
func cloneSession(session *Session) *Session {
	if session == nil {
		return nil
	}
	clone := *session
	clone.Messages = make([]SessionMessage, len(session.Messages))
	copy(clone.Messages, session.Messages)
	clone.Tools = make([]SessionToolLog, len(session.Tools))
	copy(clone.Tools, session.Tools)
	clone.Logs = make([]SessionLogEntry, len(session.Logs))
	copy(clone.Logs, session.Logs)
	return &clone
}

// Sessions returns copies of the sessions in display order. Ids in the order
// list that fail to resolve are filtered out; under the store invariants
// there should be none.
func (s *Store) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*Session, 0, len(s.state.Order))
	for _, id := range s.state.Order {
		if session, ok := s.state.Map[id]; ok {
			sessions = append(sessions, cloneSession(session))
		}
	}
	return sessions
}

// Get returns a copy of the session with the given id, or nil
func (s *Store) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.state.Map[id])
}

// CurrentID returns the id of the selected session, or "" when none
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentID
}

// Current returns a copy of the selected session, or nil when none
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentID == "" {
		return nil
	}
	return cloneSession(s.state.Map[s.state.CurrentID])
}

// Len returns the number of sessions in the store
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Map)
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.state.MarshalJSON()
	if err != nil {
		return EmptyState()
	}
	return DecodeState(data)
}
