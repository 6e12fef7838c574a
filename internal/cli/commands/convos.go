package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var convosFilter string

// convosCmd is the convos command
var convosCmd = &cobra.Command{
	Use:   "convos",
	Short: "list conversations",
	Example: `  # List all conversations
  $ ragchat convos

  # Filter by title
  $ ragchat convos --filter tax`,
	Args: cobra.NoArgs,
	RunE: runConvos,
}

func init() {
	convosCmd.Flags().StringVarP(&convosFilter, "filter", "f", "", "Show only conversations whose title matches this text")

	convosCmd.SilenceUsage = true
}

func runConvos(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	store := state.NewConversationStore(a.api, a.log)
	defer store.Close()

	store.Load(ctx)
	if store.Phase() == state.PhaseFailed {
		ui.PrintError("failed to list conversations: %s", client.UserMessage(store.Err()))
		return fmt.Errorf("list operation failed")
	}

	fmt.Println()
	fmt.Println(ui.RenderConversationList(store.Filter(convosFilter)))
	return nil
}
