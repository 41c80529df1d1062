package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

// newCmd creates a session without entering the playground
var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new session and select it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore(loadAppConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		id := store.CreateSession(name)
		fmt.Printf("Created session %s (%s)\n", store.Get(id).Name, id)
		return nil
	},
}

// selectCmd changes the current session
var selectCmd = &cobra.Command{
	Use:   "select <session-id>",
	Short: "Select the current session",
	Args:  cobra.ExactArgs(1),
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
		store.SelectSession(session.ID)
		fmt.Printf("Selected session %s (%s)\n", session.Name, session.ID)
		return nil
	},
}

// renameCmd renames a session
var renameCmd = &cobra.Command{
	Use:   "rename <session-id> <name>",
	Short: "Rename a session",
	Args:  cobra.ExactArgs(2),
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
		store.RenameSession(session.ID, args[1])
		fmt.Printf("Renamed session %s to %q\n", session.ShortID(), args[1])
		return nil
	},
}

// deleteCmd removes one session
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
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
		store.DeleteSession(session.ID)
		fmt.Printf("Deleted session %s\n", session.ShortID())
		return nil
	},
}

// resetCmd wipes the entire store
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all sessions",
	Long:  `Delete every stored session. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cleanup, err := openStore(loadAppConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		if store.Len() == 0 {
			fmt.Println("No sessions to delete.")
			return nil
		}

		if !resetForce && !confirm(fmt.Sprintf("Delete all %d session(s)?", store.Len())) {
			fmt.Println("Aborted.")
			return nil
		}

		store.ResetSessions()
		fmt.Println("All sessions deleted.")
		return nil
	},
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")
}
