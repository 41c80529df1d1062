package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions",
	Long:  `List all chat sessions held in the local session store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore(loadAppConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		displaySessions(store.Sessions(), store.CurrentID())
		return nil
	},
}

func displaySessions(sessions []*internal.Session, currentID string) {
	if len(sessions) == 0 {
		fmt.Println(headerStyle.Render("No sessions found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Tools")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, session := range sessions {
		name := session.Name
		if name == "" {
			name = "Untitled"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		if session.ID == currentID {
			name = currentStyle.Render(name + " *")
		} else {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(name)
		}

		msgCount := countStyle.Render(strconv.Itoa(len(session.Messages)))
		toolCount := countStyle.Render(strconv.Itoa(len(session.Tools)))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(session.ShortID()), name, msgCount, toolCount,
			dateStyle.Render(formatSessionDate(session.UpdatedAt)))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("Tip: use the full ID (e.g. ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(sessions[0].ID) +
		idStyle.Render(") with `mcp-playground show <id>`"))
}

// formatSessionDate renders a stored RFC3339 timestamp relative to now
func formatSessionDate(timestamp string) string {
	if timestamp == "" {
		return "-"
	}
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		if len(timestamp) >= 10 {
			return timestamp[:10]
		}
		return timestamp
	}

	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Local().Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Local().Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Local().Format("Jan 02 15:04")
	default:
		return t.Local().Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
