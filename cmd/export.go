package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal"
	"github.com/tsfarizi/cbt-mcp-playground/internal/export"
)

var (
	exportFormat    string
	exportOutputDir string
	exportSessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export stored chat sessions to various formats (jsonl, md, yaml, json).

You can export all sessions or a specific session by ID.
Use 'mcp-playground list' to see available session IDs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore(loadAppConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		var sessions []*internal.Session
		if exportSessionID != "" {
			session := resolveSession(store, exportSessionID)
			if session == nil {
				return fmt.Errorf("session not found: %s", exportSessionID)
			}
			sessions = []*internal.Session{session}
		} else {
			sessions = store.Sessions()
		}

		if len(sessions) == 0 {
			fmt.Println(headerStyle.Render("No sessions to export"))
			return nil
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for _, session := range sessions {
			path := filepath.Join(exportOutputDir,
				fmt.Sprintf("session_%s.%s", session.ShortID(), exporter.Extension()))
			if err := writeExport(exporter, session, path); err != nil {
				return err
			}
			internal.LogInfo("Exported session %s to %s", session.ShortID(), path)
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Exported %d session(s) to %s", len(sessions), exportOutputDir)))
		return nil
	},
}

func writeExport(exporter export.Exporter, session *internal.Session, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	defer file.Close()

	if err := exporter.Export(session, file); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json",
		fmt.Sprintf("Export format (%s)", strings.Join(export.Formats, ", ")))
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVarP(&exportSessionID, "session", "s", "", "Export a single session by ID")
}
