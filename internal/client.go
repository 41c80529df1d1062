package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ToolDefinition describes one tool exposed by the backend
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AgentToolStep is one tool invocation reported in a chat response. Input and
// Output are opaque server-defined payloads.
type AgentToolStep struct {
	Tool    string          `json:"tool"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Input   json.RawMessage `json:"input"`
	Output  json.RawMessage `json:"output"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Prompt       string `json:"prompt"`
	SessionID    string `json:"session_id"`
	Agent        bool   `json:"agent"`
	MaxToolSteps int    `json:"max_tool_steps,omitempty"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
}

// ChatResponse is the result of one chat turn. The backend may echo back a
// different session id, provider, or model than requested; the echoed values
// are authoritative for subsequent state updates.
type ChatResponse struct {
	SessionID string          `json:"session_id"`
	Content   string          `json:"content"`
	ToolSteps []AgentToolStep `json:"tool_steps"`
	Provider  string          `json:"provider,omitempty"`
	Model     string          `json:"model,omitempty"`
	Logs      []string        `json:"logs"`
}

// ProviderModel is one model offered by a provider
type ProviderModel struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// ProviderDefinition is a named backend model source
type ProviderDefinition struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"`
	Endpoint string          `json:"endpoint"`
	APIKey   string          `json:"api_key,omitempty"`
	Models   []ProviderModel `json:"models"`
}

// ConfigFileResponse is the backend settings file as served by /config-file
type ConfigFileResponse struct {
	Model           string               `json:"model"`
	DefaultProvider string               `json:"default_provider"`
	SystemPrompt    string               `json:"system_prompt"`
	PromptTemplate  string               `json:"prompt_template"`
	Tools           []ToolDefinition     `json:"tools"`
	Providers       []ProviderDefinition `json:"providers"`
	Raw             string               `json:"raw"`
}

// UpdateConfigPayload is the body of PUT /config-file
type UpdateConfigPayload struct {
	Model           string `json:"model"`
	DefaultProvider string `json:"default_provider"`
	SystemPrompt    string `json:"system_prompt"`
	PromptTemplate  string `json:"prompt_template"`
}

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:8080"

// Client is the HTTP client for the playground backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (trailing slash stripped)
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute, // Agent turns can run many tool steps
		},
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON performs one JSON request/response exchange. Failures are normalized
// to the client error taxonomy: RequestError for transport failures, APIError
// for non-2xx statuses (message from a JSON "error" field when present),
// FormatError when an expected JSON body has another content type. A 204
// leaves out untouched.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if isJSON {
			var payload struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
				apiErr.Message = payload.Error
			}
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if !isJSON {
		return &FormatError{ContentType: contentType}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// FetchTools lists the tools configured on the backend
func (c *Client) FetchTools(ctx context.Context) ([]ToolDefinition, error) {
	var data struct {
		Tools []ToolDefinition `json:"tools"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/tools", nil, &data); err != nil {
		return nil, err
	}
	if data.Tools == nil {
		return []ToolDefinition{}, nil
	}
	return data.Tools, nil
}

// SendChat submits one chat turn
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadConfig reads the backend settings file
func (c *Client) LoadConfig(ctx context.Context) (*ConfigFileResponse, error) {
	var resp ConfigFileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/config-file", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveConfig updates the backend settings file and returns the saved result
func (c *Client) SaveConfig(ctx context.Context, payload UpdateConfigPayload) (*ConfigFileResponse, error) {
	var resp ConfigFileResponse
	if err := c.doJSON(ctx, http.MethodPut, "/config-file", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
