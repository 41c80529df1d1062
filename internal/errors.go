package internal

import (
	"fmt"
	"net/http"
)

// StorageError represents errors accessing the local state database
type StorageError struct {
	Path string
	Op   string // "open", "read", "write"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RequestError represents a failure to reach the backend at the transport
// level (connection refused, DNS failure, timeout).
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("could not reach server (%s %s): %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the backend. Message carries
// the server-supplied error text when present, else the HTTP status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.Status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// FormatError represents a response that was expected to be JSON but was not
type FormatError struct {
	ContentType string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported response format: %q", e.ContentType)
}

// ParseError represents errors decoding a JSON response body
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s]: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
