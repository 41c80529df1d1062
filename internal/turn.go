package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyPrompt is returned when a turn is attempted with a blank prompt.
// It is a local validation failure: no request is issued and no session is
// created or mutated.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// ChatSender is the part of the API client a turn needs
type ChatSender interface {
	SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// TurnOptions parameterizes one chat turn
type TurnOptions struct {
	Prompt       string
	Provider     string
	Model        string
	MaxToolSteps int
	Agent        bool
}

// TurnResult reports the outcome of one completed chat turn
type TurnResult struct {
	SessionID string // authoritative (possibly server-assigned) session id
	Provider  string
	Model     string
	Response  *ChatResponse
}

// TurnRunner drives one chat turn against the store: append the user message,
// call the backend, record the assistant reply, tool logs, and diagnostic
// logs under the session id the backend echoes back, then select that
// session. On failure a system-role message carrying the error text is
// appended to the originating session so the failure stays visible in the
// conversation history.
type TurnRunner struct {
	api   ChatSender
	store *Store
	now   func() time.Time
}

// NewTurnRunner creates a runner over the given client and store
func NewTurnRunner(api ChatSender, store *Store) *TurnRunner {
	return &TurnRunner{api: api, store: store, now: time.Now}
}

// Run executes one chat turn. When no session is selected a new one is
// created first. The returned result carries the echoed session id, provider,
// and model; the caller should treat them as authoritative.
func (r *TurnRunner) Run(ctx context.Context, opts TurnOptions) (*TurnResult, error) {
	prompt := strings.TrimSpace(opts.Prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	sessionID := r.store.CurrentID()
	if sessionID == "" {
		sessionID = r.store.CreateSession("")
	}

	now := r.now().UTC()
	r.store.AppendMessage(sessionID, SessionMessage{
		ID:        fmt.Sprintf("%s-user-%d", sessionID, now.UnixMilli()),
		Role:      RoleUser,
		Content:   prompt,
		Timestamp: now.Format(time.RFC3339Nano),
	})

	resp, err := r.api.SendChat(ctx, ChatRequest{
		Prompt:       prompt,
		SessionID:    sessionID,
		Agent:        opts.Agent,
		MaxToolSteps: opts.MaxToolSteps,
		Provider:     opts.Provider,
		Model:        opts.Model,
	})
	if err != nil {
		failedAt := r.now().UTC()
		r.store.AppendMessage(sessionID, SessionMessage{
			ID:        fmt.Sprintf("%s-error-%d", sessionID, failedAt.UnixMilli()),
			Role:      RoleSystem,
			Content:   fmt.Sprintf("Failed to send prompt: %v", err),
			Timestamp: failedAt.Format(time.RFC3339Nano),
		})
		return nil, err
	}

	// The echoed session id wins. When the backend assigned a fresh one the
	// provisional session stays behind with the user message it already holds.
	targetID := resp.SessionID
	if targetID == "" {
		targetID = sessionID
	}
	r.store.EnsureSession(targetID, "")

	replyAt := r.now().UTC()
	r.store.AppendMessage(targetID, SessionMessage{
		ID:        fmt.Sprintf("%s-assistant-%d", targetID, replyAt.UnixMilli()),
		Role:      RoleAssistant,
		Content:   resp.Content,
		Timestamp: replyAt.Format(time.RFC3339Nano),
	})
	r.store.AppendToolLogs(targetID, ToolLogsFromSteps(resp.ToolSteps, replyAt))
	if len(resp.Logs) > 0 {
		r.store.AppendLogs(targetID, LogEntriesFromLines(targetID, resp.Logs, replyAt))
	}
	r.store.SelectSession(targetID)

	result := &TurnResult{
		SessionID: targetID,
		Provider:  resp.Provider,
		Model:     resp.Model,
		Response:  resp,
	}
	if result.Provider == "" {
		result.Provider = opts.Provider
	}
	if result.Model == "" {
		result.Model = opts.Model
	}
	return result, nil
}

// ToolLogsFromSteps tags each reported tool step with a freshly generated id
// and the capture instant.
func ToolLogsFromSteps(steps []AgentToolStep, at time.Time) []SessionToolLog {
	if len(steps) == 0 {
		return nil
	}
	logs := make([]SessionToolLog, 0, len(steps))
	for _, step := range steps {
		logs = append(logs, SessionToolLog{
			ID:        fmt.Sprintf("%s-%d-%s", step.Tool, at.UnixMilli(), randomSuffix()),
			Tool:      step.Tool,
			Success:   step.Success,
			Message:   step.Message,
			Input:     step.Input,
			Output:    step.Output,
			Timestamp: at.Format(time.RFC3339Nano),
		})
	}
	return logs
}

// LogEntriesFromLines converts backend log lines to session log entries.
// Each entry gets a synthetic sequential timestamp derived from the single
// capture instant so the lines keep their relative order.
func LogEntriesFromLines(sessionID string, lines []string, at time.Time) []SessionLogEntry {
	if len(lines) == 0 {
		return nil
	}
	base := at.UnixMilli()
	entries := make([]SessionLogEntry, 0, len(lines))
	for i, line := range lines {
		entries = append(entries, SessionLogEntry{
			ID:        fmt.Sprintf("%s-log-%d-%s", sessionID, base+int64(i), randomSuffix()),
			Message:   line,
			Timestamp: time.UnixMilli(base + int64(i)).UTC().Format(time.RFC3339Nano),
		})
	}
	return entries
}
