package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

var (
	showLimit int
	showTools bool
	showLogs  bool
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	systemMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	toolOkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	toolFailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one stored session",
	Long: `Display the conversation of one stored session, with optional tool
invocation records and backend diagnostic logs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore(loadAppConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		session := resolveSession(store, args[0])
		if session == nil {
			return fmt.Errorf("session not found: %s", args[0])
		}

		renderSession(session, showLimit, showTools, showLogs)
		return nil
	},
}

// resolveSession looks a session up by full id, falling back to a unique
// short-id prefix match.
func resolveSession(store *internal.Store, id string) *internal.Session {
	if session := store.Get(id); session != nil {
		return session
	}

	var match *internal.Session
	for _, session := range store.Sessions() {
		if strings.HasPrefix(session.ID, id) {
			if match != nil {
				return nil // ambiguous prefix
			}
			match = session
		}
	}
	return match
}

func renderSession(session *internal.Session, limit int, withTools, withLogs bool) {
	name := session.Name
	if name == "" {
		name = "Untitled"
	}
	fmt.Println(sessionHeaderStyle.Render(name))
	fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("ID: %s", session.ID)))
	fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("Created: %s   Updated: %s",
		formatShowTimestamp(session.CreatedAt), formatShowTimestamp(session.UpdatedAt))))
	fmt.Println(sessionMetaStyle.Render(fmt.Sprintf("Messages: %d   Tool calls: %d   Log lines: %d",
		len(session.Messages), len(session.Tools), len(session.Logs))))
	fmt.Println()

	messages := session.Messages
	if limit > 0 && len(messages) > limit {
		fmt.Println(timestampStyle.Render(fmt.Sprintf("(showing last %d of %d messages)", limit, len(messages))))
		messages = messages[len(messages)-limit:]
	}

	for _, msg := range messages {
		var label string
		switch msg.Role {
		case internal.RoleUser:
			label = userMessageStyle.Render("You")
		case internal.RoleAssistant:
			label = assistantMessageStyle.Render("Assistant")
		default:
			label = systemMessageStyle.Render("System")
		}
		if msg.Timestamp != "" {
			label += " " + timestampStyle.Render(formatShowTimestamp(msg.Timestamp))
		}
		fmt.Println(label)
		fmt.Println(messageContentStyle.Render(msg.Content))
	}

	if withTools && len(session.Tools) > 0 {
		fmt.Println(sessionHeaderStyle.Render("Tool Calls"))
		for _, tool := range session.Tools {
			status := toolOkStyle.Render("ok")
			if !tool.Success {
				status = toolFailStyle.Render("failed")
			}
			line := fmt.Sprintf("%s [%s]", tool.Tool, status)
			if tool.Message != "" {
				line += " " + tool.Message
			}
			fmt.Println(messageContentStyle.Render(line))
		}
	}

	if withLogs && len(session.Logs) > 0 {
		fmt.Println(sessionHeaderStyle.Render("Diagnostic Logs"))
		for _, entry := range session.Logs {
			fmt.Println(messageContentStyle.Render(
				timestampStyle.Render(formatShowTimestamp(entry.Timestamp)) + " " + entry.Message))
		}
	}
}

func formatShowTimestamp(timestamp string) string {
	if timestamp == "" {
		return "-"
	}
	if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
		return t.Local().Format("2006-01-02 15:04:05")
	}
	return timestamp
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Show only the last N messages (0 = all)")
	showCmd.Flags().BoolVar(&showTools, "tools", false, "Include tool invocation records")
	showCmd.Flags().BoolVar(&showLogs, "logs", false, "Include backend diagnostic logs")
}
