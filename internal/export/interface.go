package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

// Exporter writes one stored session to a sink: the conversation transcript
// plus, where the format has room for them, the session's tool invocation
// records and backend diagnostic logs.
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

// Formats lists the supported export format names
var Formats = []string{"jsonl", "md", "yaml", "json"}

// NewExporter picks the exporter for a format name. "markdown" is accepted
// as an alias for "md".
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (choose one of %s)", format, strings.Join(Formats, ", "))
	}
}
