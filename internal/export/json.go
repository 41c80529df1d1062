package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

// JSONExporter writes the session in its persisted JSON shape,
// pretty-printed. Unlike the YAML projection, raw tool input and output
// payloads survive untouched, so this is the lossless format.
type JSONExporter struct{}

// Export writes the session as one indented JSON document
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
