package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools configured on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(loadAppConfig())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		tools, err := client.FetchTools(ctx)
		if err != nil {
			return err
		}

		if len(tools) == 0 {
			fmt.Println(headerStyle.Render("No tools configured on the server"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d tool(s) available", len(tools))))
		fmt.Println()
		for _, tool := range tools {
			line := titleStyle.Render(tool.Name)
			if tool.Description != "" {
				line += dateStyle.Render(" - " + tool.Description)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
