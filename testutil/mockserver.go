package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockBackend is a fake playground backend for client tests. Handlers can be
// swapped per test; unset routes return 404.
type MockBackend struct {
	Server *httptest.Server
	mux    *http.ServeMux
}

// NewMockBackend starts a fake backend; it is torn down with the test
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &MockBackend{Server: server, mux: mux}
}

// URL returns the backend base URL
func (b *MockBackend) URL() string {
	return b.Server.URL
}

// Handle registers a handler for a route pattern
func (b *MockBackend) Handle(pattern string, handler http.HandlerFunc) {
	b.mux.HandleFunc(pattern, handler)
}

// RespondJSON writes a JSON response with the given status
func RespondJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}
}
