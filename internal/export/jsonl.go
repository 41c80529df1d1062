package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

// JSONLExporter exports sessions in JSONL format (one record per line):
// every message, then every tool log, then every diagnostic log entry.
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		obj := map[string]interface{}{
			"type":    "message",
			"role":    msg.Role,
			"content": msg.Content,
		}
		if msg.Timestamp != "" {
			obj["timestamp"] = msg.Timestamp
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	for _, tool := range session.Tools {
		obj := map[string]interface{}{
			"type":    "tool",
			"tool":    tool.Tool,
			"success": tool.Success,
		}
		if tool.Message != "" {
			obj["message"] = tool.Message
		}
		if tool.Timestamp != "" {
			obj["timestamp"] = tool.Timestamp
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode tool log: %w", err)
		}
	}

	for _, entry := range session.Logs {
		obj := map[string]interface{}{
			"type":    "log",
			"message": entry.Message,
		}
		if entry.Timestamp != "" {
			obj["timestamp"] = entry.Timestamp
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode log entry: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
