package export

import (
	"io"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// yamlSession is the YAML projection of a session. Tool input/output payloads
// are omitted because their raw JSON form does not survive YAML re-encoding.
type yamlSession struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name,omitempty"`
	CreatedAt string        `yaml:"created_at,omitempty"`
	UpdatedAt string        `yaml:"updated_at,omitempty"`
	Messages  []yamlMessage `yaml:"messages"`
	Tools     []yamlToolLog `yaml:"tools,omitempty"`
	Logs      []yamlLog     `yaml:"logs,omitempty"`
}

type yamlMessage struct {
	Role      string `yaml:"role"`
	Content   string `yaml:"content"`
	Timestamp string `yaml:"timestamp,omitempty"`
}

type yamlToolLog struct {
	Tool      string `yaml:"tool"`
	Success   bool   `yaml:"success"`
	Message   string `yaml:"message,omitempty"`
	Timestamp string `yaml:"timestamp,omitempty"`
}

type yamlLog struct {
	Message   string `yaml:"message"`
	Timestamp string `yaml:"timestamp,omitempty"`
}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	out := yamlSession{
		ID:        session.ID,
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Messages:  []yamlMessage{},
	}
	for _, msg := range session.Messages {
		out.Messages = append(out.Messages, yamlMessage{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}
	for _, tool := range session.Tools {
		out.Tools = append(out.Tools, yamlToolLog{
			Tool:      tool.Tool,
			Success:   tool.Success,
			Message:   tool.Message,
			Timestamp: tool.Timestamp,
		})
	}
	for _, entry := range session.Logs {
		out.Logs = append(out.Logs, yamlLog{
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		})
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(out)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
