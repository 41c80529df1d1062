package internal

import (
	"encoding/json"
)

// MessageRole identifies who produced a message within a session.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// SessionMessage represents one turn in a conversation
type SessionMessage struct {
	ID          string              `json:"id"`
	Role        MessageRole         `json:"role"`
	Content     string              `json:"content"`
	Timestamp   string              `json:"timestamp"`
	Attachments []MessageAttachment `json:"attachments,omitempty"`
}

// MessageAttachment represents a file attached to a message
type MessageAttachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// SessionToolLog records one tool invocation during an agent turn.
// Input and Output are opaque server-defined payloads and are kept as raw JSON.
type SessionToolLog struct {
	ID        string          `json:"id"`
	Tool      string          `json:"tool"`
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
	Timestamp string          `json:"timestamp"`
}

// SessionLogEntry is a free-form diagnostic line emitted by the backend
type SessionLogEntry struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Session represents one conversation thread
type Session struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	Messages  []SessionMessage  `json:"messages"`
	Tools     []SessionToolLog  `json:"tools"`
	Logs      []SessionLogEntry `json:"logs"`
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// ShortID returns the first 8 characters of the session ID for display
func (s *Session) ShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// StoreState is the full persisted session store: the session mapping, the
// display order of session ids, and the id of the currently selected session
// ("" when none). It serializes to the same JSON shape the playground web UI
// writes ({map, order, currentId}), with the empty current id encoded as null.
type StoreState struct {
	Map       map[string]*Session
	Order     []string
	CurrentID string
}

// EmptyState returns a fresh empty store state
func EmptyState() StoreState {
	return StoreState{
		Map:   map[string]*Session{},
		Order: []string{},
	}
}

// MarshalJSON encodes the state in the persisted wire shape
func (s StoreState) MarshalJSON() ([]byte, error) {
	m := s.Map
	if m == nil {
		m = map[string]*Session{}
	}
	order := s.Order
	if order == nil {
		order = []string{}
	}
	var current interface{}
	if s.CurrentID != "" {
		current = s.CurrentID
	}
	return json.Marshal(struct {
		Map       map[string]*Session `json:"map"`
		Order     []string            `json:"order"`
		CurrentID interface{}         `json:"currentId"`
	}{m, order, current})
}

// UnmarshalJSON decodes persisted state, normalizing malformed fields instead
// of failing. See DecodeState for the field-by-field rules.
func (s *StoreState) UnmarshalJSON(data []byte) error {
	*s = DecodeState(data)
	return nil
}

// rawState mirrors the persisted shape with every field left undecoded so
// each one can degrade independently.
type rawState struct {
	Map       json.RawMessage `json:"map"`
	Order     json.RawMessage `json:"order"`
	CurrentID json.RawMessage `json:"currentId"`
}

type rawSession struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Messages  json.RawMessage `json:"messages"`
	Tools     json.RawMessage `json:"tools"`
	Logs      json.RawMessage `json:"logs"`
}

type rawMessage struct {
	ID          string          `json:"id"`
	Role        MessageRole     `json:"role"`
	Content     string          `json:"content"`
	Timestamp   string          `json:"timestamp"`
	Attachments json.RawMessage `json:"attachments"`
}

// DecodeState parses a persisted state blob. It never fails: an unreadable
// blob yields the empty state, and each field (top-level map/order/currentId,
// per-session messages/tools/logs, per-message attachments) independently
// falls back to its empty value when it has the wrong shape.
func DecodeState(data []byte) StoreState {
	state := EmptyState()
	if len(data) == 0 {
		return state
	}

	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		LogDebug("Discarding unreadable state blob: %v", err)
		return state
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw.Map, &entries); err == nil {
		for id, entry := range entries {
			session := decodeSession(entry)
			if session == nil {
				continue
			}
			state.Map[id] = session
		}
	}

	var order []string
	if err := json.Unmarshal(raw.Order, &order); err == nil && order != nil {
		state.Order = order
	}

	var currentID string
	if err := json.Unmarshal(raw.CurrentID, &currentID); err == nil {
		state.CurrentID = currentID
	}

	return state
}

func decodeSession(data json.RawMessage) *Session {
	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	session := &Session{
		ID:        raw.ID,
		Name:      raw.Name,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
		Messages:  decodeMessages(raw.Messages),
		Tools:     []SessionToolLog{},
		Logs:      []SessionLogEntry{},
	}

	var tools []SessionToolLog
	if err := json.Unmarshal(raw.Tools, &tools); err == nil && tools != nil {
		session.Tools = tools
	}

	var logs []SessionLogEntry
	if err := json.Unmarshal(raw.Logs, &logs); err == nil && logs != nil {
		session.Logs = logs
	}

	return session
}

func decodeMessages(data json.RawMessage) []SessionMessage {
	messages := []SessionMessage{}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return messages
	}

	for _, element := range elements {
		var raw rawMessage
		if err := json.Unmarshal(element, &raw); err != nil {
			// Skip entries that are not objects
			continue
		}
		message := SessionMessage{
			ID:        raw.ID,
			Role:      raw.Role,
			Content:   raw.Content,
			Timestamp: raw.Timestamp,
		}
		var attachments []MessageAttachment
		if err := json.Unmarshal(raw.Attachments, &attachments); err == nil {
			message.Attachments = attachments
		}
		messages = append(messages, message)
	}

	return messages
}
