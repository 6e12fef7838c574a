package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

// renameCmd is the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <convo-id> <title>",
	Short: "rename a conversation",
	Long: `Rename a conversation. The title is validated locally (it may not be
empty) and the change only takes effect once the server confirms it.`,
	Example: `  # Rename conversation 3
  $ ragchat rename 3 "Quarterly report questions"`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func init() {
	renameCmd.SilenceUsage = true
}

func runRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "conversation")
	if err != nil {
		return err
	}
	title := args[1]

	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	store := state.NewConversationStore(a.api, a.log)
	defer store.Close()

	if err := store.Rename(ctx, id, title); err != nil {
		ui.PrintError("failed to rename: %s", client.UserMessage(err))
		return fmt.Errorf("rename failed")
	}

	ui.PrintSuccess("Conversation #%d renamed to %q", id, title)
	return nil
}
