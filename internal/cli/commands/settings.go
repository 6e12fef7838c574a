package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var (
	settingsMode         string
	settingsModel        string
	settingsOpenAIKey    string
	settingsAnthropicKey string
)

// settingsCmd is the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "inspect or change backend settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "show current backend settings",
	Example: `  $ ragchat settings get`,
	Args: cobra.NoArgs,
	RunE: runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "update backend settings",
	Long: `Update the AI mode, chat model or provider API keys. Values are
validated locally before the request is sent; the mode must be one of
n8n or rag. Keys are write-only: the backend never returns them, only
whether one is configured.`,
	Example: `  # Switch to direct RAG mode
  $ ragchat settings set --mode rag

  # Change the chat model
  $ ragchat settings set --model gpt-4o-mini

  # Store a provider key
  $ ragchat settings set --openai-key sk-...`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingsMode, "mode", "",
		fmt.Sprintf("AI mode (%s or %s)", types.ModeN8N, types.ModeRAG))
	settingsSetCmd.Flags().StringVar(&settingsModel, "model", "", "Chat model name")
	settingsSetCmd.Flags().StringVar(&settingsOpenAIKey, "openai-key", "", "OpenAI API key")
	settingsSetCmd.Flags().StringVar(&settingsAnthropicKey, "anthropic-key", "", "Anthropic API key")

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsCmd.SilenceUsage = true
	settingsGetCmd.SilenceUsage = true
	settingsSetCmd.SilenceUsage = true
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	settings, err := a.api.GetSettings(ctx)
	if err != nil {
		ui.PrintError("failed to read settings: %s", client.UserMessage(err))
		return fmt.Errorf("settings read failed")
	}

	ui.PrintBold("Settings")
	fmt.Printf("  AI mode:    %s\n", settings.AIMode)
	fmt.Printf("  Chat model: %s\n", settings.ChatModel)
	if len(settings.AvailableModels) > 0 {
		fmt.Printf("  Available:  %s\n", strings.Join(settings.AvailableModels, ", "))
	}
	fmt.Printf("  OpenAI key:    %s\n", keyState(settings.OpenAIKeySet))
	fmt.Printf("  Anthropic key: %s\n", keyState(settings.AnthropicKeySet))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsMode == "" && settingsModel == "" && settingsOpenAIKey == "" && settingsAnthropicKey == "" {
		ui.PrintError("nothing to update, pass --mode, --model or a key flag")
		return fmt.Errorf("no settings given")
	}
	if settingsMode != "" && settingsMode != types.ModeN8N && settingsMode != types.ModeRAG {
		ui.PrintError("invalid mode %q, must be %s or %s", settingsMode, types.ModeN8N, types.ModeRAG)
		return fmt.Errorf("invalid mode")
	}

	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	upd := &types.SettingsUpdate{}
	if settingsMode != "" {
		upd.AIMode = &settingsMode
	}
	if settingsModel != "" {
		upd.ChatModel = &settingsModel
	}
	if settingsOpenAIKey != "" {
		upd.OpenAIAPIKey = &settingsOpenAIKey
	}
	if settingsAnthropicKey != "" {
		upd.AnthropicAPIKey = &settingsAnthropicKey
	}

	msg, err := a.api.UpdateSettings(ctx, upd)
	if err != nil {
		ui.PrintError("failed to update settings: %s", client.UserMessage(err))
		return fmt.Errorf("settings update failed")
	}

	if msg == "" {
		msg = "Settings updated"
	}
	ui.PrintSuccess("%s", msg)
	return nil
}
