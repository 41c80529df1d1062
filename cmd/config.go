package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tsfarizi/cbt-mcp-playground/internal"
)

var (
	configShowRaw         bool
	editModel             string
	editDefaultProvider   string
	editSystemPrompt      string
	editPromptTemplate    string
	editClearSystemPrompt bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the backend settings file",
	Long: `Show the settings file served by the backend: model, default provider,
system prompt, prompt template, and the configured tools and providers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(loadAppConfig())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		config, err := client.LoadConfig(ctx)
		if err != nil {
			return err
		}

		if configShowRaw {
			fmt.Println(config.Raw)
			return nil
		}
		printConfig(config)
		return nil
	},
}

// configEditCmd updates the backend settings file
var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update the backend settings file",
	Long: `Update the backend settings file. Unset flags keep the current value;
the full payload is always sent so the saved file is complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(loadAppConfig())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		current, err := client.LoadConfig(ctx)
		if err != nil {
			return err
		}

		payload := internal.UpdateConfigPayload{
			Model:           current.Model,
			DefaultProvider: current.DefaultProvider,
			SystemPrompt:    current.SystemPrompt,
			PromptTemplate:  current.PromptTemplate,
		}
		if cmd.Flags().Changed("model") {
			payload.Model = editModel
		}
		if cmd.Flags().Changed("provider") {
			payload.DefaultProvider = editDefaultProvider
		}
		if cmd.Flags().Changed("system-prompt") {
			payload.SystemPrompt = editSystemPrompt
		}
		if editClearSystemPrompt {
			payload.SystemPrompt = ""
		}
		if cmd.Flags().Changed("prompt-template") {
			payload.PromptTemplate = editPromptTemplate
		}

		// Local validation before any write is issued
		if strings.TrimSpace(payload.Model) == "" {
			return fmt.Errorf("model must not be empty")
		}
		if strings.TrimSpace(payload.DefaultProvider) == "" {
			return fmt.Errorf("default provider must not be empty")
		}

		saved, err := client.SaveConfig(ctx, payload)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("Settings saved"))
		fmt.Println()
		printConfig(saved)
		return nil
	},
}

func printConfig(config *internal.ConfigFileResponse) {
	fmt.Println(titleStyle.Render("Model:           ") + config.Model)
	fmt.Println(titleStyle.Render("Default provider: ") + config.DefaultProvider)

	systemPrompt := config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = dateStyle.Render("(none)")
	}
	fmt.Println(titleStyle.Render("System prompt:   ") + systemPrompt)
	fmt.Println(titleStyle.Render("Prompt template: ") + config.PromptTemplate)
	fmt.Println()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Providers (%d):", len(config.Providers))))
	for _, provider := range config.Providers {
		models := make([]string, 0, len(provider.Models))
		for _, model := range provider.Models {
			models = append(models, model.Name)
		}
		fmt.Printf("  %s (%s): %s\n", provider.ID, provider.Kind, strings.Join(models, ", "))
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Tools (%d):", len(config.Tools))))
	for _, tool := range config.Tools {
		fmt.Printf("  %s\n", tool.Name)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configEditCmd)

	configCmd.Flags().BoolVar(&configShowRaw, "raw", false, "Print the raw settings file content")
	configEditCmd.Flags().StringVar(&editModel, "model", "", "Model name")
	configEditCmd.Flags().StringVar(&editDefaultProvider, "provider", "", "Default provider id")
	configEditCmd.Flags().StringVar(&editSystemPrompt, "system-prompt", "", "System prompt")
	configEditCmd.Flags().StringVar(&editPromptTemplate, "prompt-template", "", "Prompt template")
	configEditCmd.Flags().BoolVar(&editClearSystemPrompt, "clear-system-prompt", false, "Clear the system prompt")
}
