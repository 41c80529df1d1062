package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

var (
	verbose     bool
	storagePath string
	baseURL     string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcp-playground",
	Short: "Chat playground and session browser for an MCP agent backend",
	Long: `A terminal playground for a remote MCP agent backend.

The tool keeps a local store of chat sessions (messages, tool invocations,
diagnostic logs) and talks to the backend's REST API for chat turns, tool
listings, and its settings file.

Quick Start:
  mcp-playground play                    # Interactive chat playground
  mcp-playground list                    # List stored sessions
  mcp-playground show <session-id>       # View one session
  mcp-playground config                  # Show the backend settings file

The backend base URL comes from --base-url, the MCP_BASE_URL environment
variable, or the config file, in that order.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom session storage location (path to the state database)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (overrides MCP_BASE_URL and the config file)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadAppConfig reads the local tool configuration, tolerating a missing file
func loadAppConfig() *internal.AppConfig {
	path, err := internal.DefaultConfigPath()
	if err != nil {
		internal.LogDebug("No user config directory: %v", err)
		return internal.DefaultAppConfig()
	}
	cfg, err := internal.LoadAppConfig(path)
	if err != nil {
		internal.LogWarn("Ignoring unreadable config file %s: %v", path, err)
		return internal.DefaultAppConfig()
	}
	return cfg
}

// openStore opens the state database and rehydrates the session store.
// The caller must invoke the returned cleanup function.
func openStore(cfg *internal.AppConfig) (*internal.Store, func(), error) {
	path, err := internal.ResolveStoragePath(storagePath, cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	store := internal.NewStore(internal.NewSQLiteBackend(db))
	cleanup := func() {
		closeDatabase(db)
	}
	return store, cleanup, nil
}

func closeDatabase(db *sql.DB) {
	if err := db.Close(); err != nil {
		internal.LogWarn("Failed to close session storage: %v", err)
	}
}

// newClient builds the backend API client from the resolved base URL
func newClient(cfg *internal.AppConfig) *internal.Client {
	return internal.NewClient(internal.ResolveBaseURL(baseURL, cfg))
}
