package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

// statusCmd is the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "check backend health and current settings",
	Example: `  # Check the default backend
  $ ragchat status

  # Check a specific backend
  $ ragchat status -s http://rag.internal:8000`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.SilenceUsage = true
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	health, err := a.api.Health(ctx)
	if err != nil {
		ui.PrintError("backend unreachable at %s: %s", a.cfg.Server, client.UserMessage(err))
		return fmt.Errorf("health check failed")
	}
	ui.PrintSuccess("Backend %s is %s", a.cfg.Server, health.Status)

	settings, err := a.api.GetSettings(ctx)
	if err != nil {
		ui.PrintWarning("could not read settings: %s", client.UserMessage(err))
		return nil
	}

	fmt.Println()
	ui.PrintBold("Settings")
	fmt.Printf("  AI mode:    %s\n", settings.AIMode)
	fmt.Printf("  Chat model: %s\n", settings.ChatModel)
	fmt.Printf("  OpenAI key:    %s\n", keyState(settings.OpenAIKeySet))
	fmt.Printf("  Anthropic key: %s\n", keyState(settings.AnthropicKeySet))
	return nil
}

func keyState(set bool) string {
	if set {
		return "configured"
	}
	return "not set"
}
