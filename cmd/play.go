package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal/tui"
)

var (
	playMaxSteps int
	playNoAgent  bool
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive chat playground",
	Long: `Open the interactive chat playground.

The playground loads the backend's tool list and settings file, lets you pick
a provider and model, and records every turn (messages, tool invocations,
diagnostic logs) in the local session store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadAppConfig()

		store, cleanup, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		maxSteps := playMaxSteps
		if maxSteps <= 0 {
			maxSteps = cfg.MaxToolSteps
		}
		agent := cfg.AgentEnabled()
		if playNoAgent {
			agent = false
		}

		return tui.Run(store, newClient(cfg), tui.Options{
			MaxToolSteps: maxSteps,
			Agent:        agent,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVar(&playMaxSteps, "max-steps", 0, "Maximum tool steps per agent turn (0 = configured default)")
	playCmd.Flags().BoolVar(&playNoAgent, "no-agent", false, "Disable agent mode (plain chat, no tool use)")
}
