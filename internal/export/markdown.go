package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	// Header
	name := session.Name
	if name == "" {
		name = session.ID
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", name)
	_, _ = fmt.Fprintf(w, "**ID:** %s  \n", session.ID)
	if session.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.CreatedAt)
	}
	if session.UpdatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", session.UpdatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range session.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		content := escapeMarkdown(msg.Content)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, content)

		// Horizontal rule after each message (except the last one)
		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	if len(session.Tools) > 0 {
		_, _ = fmt.Fprintf(w, "## Tool Calls\n\n")
		for _, tool := range session.Tools {
			status := "ok"
			if !tool.Success {
				status = "failed"
			}
			_, _ = fmt.Fprintf(w, "- **%s** (%s)", tool.Tool, status)
			if tool.Message != "" {
				_, _ = fmt.Fprintf(w, ": %s", escapeMarkdown(tool.Message))
			}
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(session.Logs) > 0 {
		_, _ = fmt.Fprintf(w, "## Logs\n\n```\n")
		for _, entry := range session.Logs {
			_, _ = fmt.Fprintln(w, entry.Message)
		}
		_, _ = fmt.Fprintf(w, "```\n")
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			// Escape markdown syntax outside code blocks
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
