package internal

import (
	"fmt"
	"testing"
	"time"
)

// recordingBackend captures every SaveState call so tests can assert which
// operations persist and which are strict no-ops.
type recordingBackend struct {
	initial StoreState
	saves   []StoreState
	failure error
}

func (b *recordingBackend) LoadState() StoreState {
	return b.initial
}

func (b *recordingBackend) SaveState(state StoreState) error {
	b.saves = append(b.saves, state)
	return b.failure
}

func newTestStore(t *testing.T) (*Store, *recordingBackend) {
	t.Helper()
	backend := &recordingBackend{initial: EmptyState()}
	store := NewStore(backend)
	return store, backend
}

// tick installs a clock that advances one second per call, so consecutive
// mutations get strictly increasing timestamps.
func tick(store *Store) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
}

func TestStore_CreateSession(t *testing.T) {
	store, backend := newTestStore(t)

	id := store.CreateSession("My chat")

	if id == "" {
		t.Fatal("CreateSession() returned empty id")
	}
	session := store.Get(id)
	if session == nil {
		t.Fatal("created session not found")
	}
	if session.Name != "My chat" {
		t.Errorf("name = %q, want My chat", session.Name)
	}
	if session.CreatedAt != session.UpdatedAt {
		t.Errorf("createdAt %q != updatedAt %q on fresh session", session.CreatedAt, session.UpdatedAt)
	}
	if len(session.Messages) != 0 || len(session.Tools) != 0 || len(session.Logs) != 0 {
		t.Error("fresh session not empty")
	}
	if store.CurrentID() != id {
		t.Errorf("currentId = %q, want %q", store.CurrentID(), id)
	}
	if len(backend.saves) != 1 {
		t.Errorf("saves = %d, want 1", len(backend.saves))
	}
}

func TestStore_CreateSessionDefaultNames(t *testing.T) {
	store, _ := newTestStore(t)

	first := store.CreateSession("")
	second := store.CreateSession("")

	if got := store.Get(first).Name; got != "Session 1" {
		t.Errorf("first name = %q, want Session 1", got)
	}
	if got := store.Get(second).Name; got != "Session 2" {
		t.Errorf("second name = %q, want Session 2", got)
	}
	if store.CurrentID() != second {
		t.Errorf("currentId = %q, want latest session %q", store.CurrentID(), second)
	}
}

func TestStore_EnsureSession(t *testing.T) {
	store, backend := newTestStore(t)
	existing := store.CreateSession("A")
	savesBefore := len(backend.saves)

	if created := store.EnsureSession(existing, ""); created {
		t.Error("EnsureSession() created duplicate for known id")
	}
	if created := store.EnsureSession("", ""); created {
		t.Error("EnsureSession() accepted empty id")
	}
	if len(backend.saves) != savesBefore {
		t.Errorf("saves = %d, want %d (no write on no-op)", len(backend.saves), savesBefore)
	}

	if created := store.EnsureSession("srv-99", ""); !created {
		t.Fatal("EnsureSession() did not create unknown id")
	}
	adopted := store.Get("srv-99")
	if adopted == nil {
		t.Fatal("adopted session not found")
	}
	if adopted.Name != "Session 2" {
		t.Errorf("adopted name = %q, want Session 2", adopted.Name)
	}
	if store.CurrentID() != existing {
		t.Errorf("EnsureSession changed selection to %q", store.CurrentID())
	}
	sessions := store.Sessions()
	if len(sessions) != 2 || sessions[1].ID != "srv-99" {
		t.Errorf("order after adopt = %v", sessionIDs(sessions))
	}
}

func TestStore_SelectSession(t *testing.T) {
	store, backend := newTestStore(t)
	first := store.CreateSession("A")
	second := store.CreateSession("B")
	savesBefore := len(backend.saves)

	store.SelectSession(first)
	if store.CurrentID() != first {
		t.Errorf("currentId = %q, want %q", store.CurrentID(), first)
	}
	if len(backend.saves) != savesBefore+1 {
		t.Errorf("saves = %d, want %d", len(backend.saves), savesBefore+1)
	}

	// Selecting the already current session or an unknown id writes nothing
	store.SelectSession(first)
	store.SelectSession("nope")
	if len(backend.saves) != savesBefore+1 {
		t.Errorf("saves = %d after no-op selects, want %d", len(backend.saves), savesBefore+1)
	}
	if store.CurrentID() != first {
		t.Errorf("currentId drifted to %q", store.CurrentID())
	}
	_ = second
}

func TestStore_DeleteSession(t *testing.T) {
	store, backend := newTestStore(t)
	first := store.CreateSession("A")
	second := store.CreateSession("B")
	third := store.CreateSession("C")

	// Deleting a non-current session keeps the selection
	store.SelectSession(second)
	store.DeleteSession(third)
	if store.CurrentID() != second {
		t.Errorf("currentId = %q, want %q", store.CurrentID(), second)
	}

	// Deleting the current session falls back to the first remaining id
	store.DeleteSession(second)
	if store.CurrentID() != first {
		t.Errorf("currentId = %q, want first remaining %q", store.CurrentID(), first)
	}

	// Deleting the last session clears the selection
	store.DeleteSession(first)
	if store.CurrentID() != "" {
		t.Errorf("currentId = %q, want empty", store.CurrentID())
	}
	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}

	savesBefore := len(backend.saves)
	store.DeleteSession("unknown")
	if len(backend.saves) != savesBefore {
		t.Error("delete of unknown id wrote state")
	}
}

func TestStore_ResetSessions(t *testing.T) {
	store, _ := newTestStore(t)
	store.CreateSession("A")
	store.CreateSession("B")

	store.ResetSessions()

	if store.Len() != 0 {
		t.Errorf("len = %d, want 0", store.Len())
	}
	if store.CurrentID() != "" {
		t.Errorf("currentId = %q, want empty", store.CurrentID())
	}
	if len(store.Sessions()) != 0 {
		t.Error("sessions remain after reset")
	}
}

func TestStore_RenameSession(t *testing.T) {
	store, backend := newTestStore(t)
	tick(store)
	id := store.CreateSession("Old")
	before := store.Get(id).UpdatedAt
	savesBefore := len(backend.saves)

	store.RenameSession(id, "New")
	session := store.Get(id)
	if session.Name != "New" {
		t.Errorf("name = %q, want New", session.Name)
	}
	if session.UpdatedAt <= before {
		t.Errorf("updatedAt %q not bumped past %q", session.UpdatedAt, before)
	}
	if len(backend.saves) != savesBefore+1 {
		t.Errorf("saves = %d, want %d", len(backend.saves), savesBefore+1)
	}

	// Renaming to the current name or an unknown id is a strict no-op
	renamed := session.UpdatedAt
	store.RenameSession(id, "New")
	store.RenameSession("unknown", "X")
	if store.Get(id).UpdatedAt != renamed {
		t.Error("no-op rename bumped updatedAt")
	}
	if len(backend.saves) != savesBefore+1 {
		t.Error("no-op rename wrote state")
	}
}

func TestStore_AppendMessage(t *testing.T) {
	store, backend := newTestStore(t)
	tick(store)
	id := store.CreateSession("A")
	created := store.Get(id).CreatedAt

	store.AppendMessage(id, SessionMessage{ID: "m1", Role: RoleUser, Content: "hi", Timestamp: created})
	store.AppendMessage(id, SessionMessage{ID: "m2", Role: RoleAssistant, Content: "hello"})

	session := store.Get(id)
	if len(session.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(session.Messages))
	}
	if session.Messages[0].ID != "m1" || session.Messages[1].ID != "m2" {
		t.Errorf("message order = %s, %s", session.Messages[0].ID, session.Messages[1].ID)
	}
	if session.UpdatedAt <= session.CreatedAt {
		t.Errorf("updatedAt %q not past createdAt %q", session.UpdatedAt, session.CreatedAt)
	}

	savesBefore := len(backend.saves)
	store.AppendMessage("unknown", SessionMessage{ID: "m3"})
	if len(backend.saves) != savesBefore {
		t.Error("append to unknown id wrote state")
	}
}

func TestStore_AppendToolLogsAndLogs(t *testing.T) {
	store, backend := newTestStore(t)
	tick(store)
	id := store.CreateSession("A")
	before := store.Get(id).UpdatedAt
	savesBefore := len(backend.saves)

	// Empty lists are strict no-ops
	store.AppendToolLogs(id, nil)
	store.AppendToolLogs(id, []SessionToolLog{})
	store.AppendLogs(id, nil)
	if store.Get(id).UpdatedAt != before {
		t.Error("empty append bumped updatedAt")
	}
	if len(backend.saves) != savesBefore {
		t.Error("empty append wrote state")
	}

	store.AppendToolLogs(id, []SessionToolLog{{ID: "t1", Tool: "search", Success: true}})
	store.AppendLogs(id, []SessionLogEntry{{ID: "l1", Message: "step one"}, {ID: "l2", Message: "step two"}})

	session := store.Get(id)
	if len(session.Tools) != 1 || session.Tools[0].Tool != "search" {
		t.Errorf("tools = %+v", session.Tools)
	}
	if len(session.Logs) != 2 || session.Logs[1].ID != "l2" {
		t.Errorf("logs = %+v", session.Logs)
	}
	if session.UpdatedAt <= before {
		t.Error("updatedAt not bumped by appends")
	}

	store.AppendToolLogs("unknown", []SessionToolLog{{ID: "t2"}})
	store.AppendLogs("unknown", []SessionLogEntry{{ID: "l3"}})
	if store.Len() != 1 {
		t.Error("append to unknown id created a session")
	}
}

func TestStore_RehydratesFromBackend(t *testing.T) {
	backend := &recordingBackend{initial: DecodeState([]byte(`{
		"map": {"s1": {"id": "s1", "name": "Kept", "messages": [], "tools": [], "logs": []}},
		"order": ["s1"],
		"currentId": "s1"
	}`))}
	store := NewStore(backend)

	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}
	if store.CurrentID() != "s1" {
		t.Errorf("currentId = %q, want s1", store.CurrentID())
	}
	if current := store.Current(); current == nil || current.Name != "Kept" {
		t.Errorf("current = %+v", current)
	}
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	backend := &recordingBackend{initial: EmptyState(), failure: errTest}
	store := NewStore(backend)

	id := store.CreateSession("A")
	store.AppendMessage(id, SessionMessage{ID: "m1", Role: RoleUser, Content: "hi"})

	if session := store.Get(id); session == nil || len(session.Messages) != 1 {
		t.Error("in-memory state lost after save failure")
	}
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	store, _ := newTestStore(t)
	id := store.CreateSession("A")
	store.AppendMessage(id, SessionMessage{ID: "m1", Role: RoleUser, Content: "hi"})

	snapshot := store.Snapshot()
	snapshot.Map[id].Name = "mutated"
	snapshot.Map[id].Messages[0].Content = "mutated"

	if store.Get(id).Name != "A" {
		t.Error("snapshot mutation leaked into store name")
	}
	if store.Get(id).Messages[0].Content != "hi" {
		t.Error("snapshot mutation leaked into store messages")
	}
}

func TestStore_ReadAccessorsReturnCopies(t *testing.T) {
	store, _ := newTestStore(t)
	id := store.CreateSession("A")
	store.AppendMessage(id, SessionMessage{ID: "m1", Role: RoleUser, Content: "hi"})

	held := store.Get(id)
	store.AppendMessage(id, SessionMessage{ID: "m2", Role: RoleAssistant, Content: "hello"})
	if len(held.Messages) != 1 {
		t.Errorf("held copy grew to %d messages", len(held.Messages))
	}

	held.Name = "mutated"
	held.Messages[0].Content = "mutated"
	if store.Get(id).Name != "A" {
		t.Error("mutating a returned session changed the store name")
	}

	current := store.Current()
	current.Name = "mutated"
	if store.Current().Name != "A" {
		t.Error("mutating the current session copy changed the store")
	}

	listed := store.Sessions()
	listed[0].Name = "mutated"
	if store.Sessions()[0].Name != "A" {
		t.Error("mutating a listed session changed the store")
	}
}

func TestStore_ConcurrentReadsDuringAppends(t *testing.T) {
	store, _ := newTestStore(t)
	id := store.CreateSession("A")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			store.AppendMessage(id, SessionMessage{ID: fmt.Sprintf("m%d", i), Role: RoleUser, Content: "x"})
			store.AppendToolLogs(id, []SessionToolLog{{ID: fmt.Sprintf("t%d", i), Tool: "search"}})
		}
	}()

	// Render-style readers iterating while the writer appends
	for i := 0; i < 200; i++ {
		if session := store.Current(); session != nil {
			for _, msg := range session.Messages {
				_ = msg.Content
			}
		}
		for _, session := range store.Sessions() {
			_ = session.MessageCount()
		}
		_ = store.Get(id)
	}
	<-done

	if got := len(store.Get(id).Messages); got != 200 {
		t.Errorf("messages = %d, want 200", got)
	}
}

func sessionIDs(sessions []*Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
