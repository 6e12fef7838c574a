package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var deleteForce bool

// deleteCmd is the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <resource-type> <id>",
	Short: "delete a document or conversation",
	Long: `Delete a document or a conversation.

Resource Types:
  • doc, document          - an uploaded document and its index data
  • convo, conversation    - a conversation and its messages

By default, you will be prompted to confirm the deletion. Use --force to skip confirmation.
Nothing is removed locally until the server confirms the deletion.`,
	Example: `  # Delete a document
  $ ragchat delete doc 7

  # Delete a conversation
  $ ragchat delete convo 3

  # Force delete without confirmation
  $ ragchat delete doc 7 --force`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")

	// Silence usage to avoid showing help on every error
	deleteCmd.SilenceUsage = true
}

func runDelete(cmd *cobra.Command, args []string) error {
	resourceType := strings.ToLower(args[0])

	var isDoc bool
	switch resourceType {
	case "doc", "document":
		isDoc = true
	case "convo", "conversation":
		isDoc = false
	default:
		ui.PrintError("invalid resource type: %s", resourceType)
		fmt.Println("\nValid types:")
		fmt.Println("  • doc, document")
		fmt.Println("  • convo, conversation")
		fmt.Printf("\nRun '%s --help' for usage.\n", cmd.CommandPath())
		return fmt.Errorf("invalid resource type")
	}

	kind := "conversation"
	if isDoc {
		kind = "document"
	}

	id, err := parseID(args[1], kind)
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	// Confirm deletion unless --force
	if !deleteForce {
		confirm := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete %s #%d? This cannot be undone.", kind, id),
		}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}

		if !confirm {
			ui.PrintInfo("Deletion cancelled")
			return nil
		}
	}

	ui.PrintInfo("Deleting %s #%d...", kind, id)

	if isDoc {
		store := state.NewDocumentStore(a.api, a.log)
		defer store.Close()
		err = store.Delete(ctx, id)
	} else {
		store := state.NewConversationStore(a.api, a.log)
		defer store.Close()
		err = store.Delete(ctx, id)
	}

	if err != nil {
		ui.PrintError("failed to delete: %s", client.UserMessage(err))
		return fmt.Errorf("deletion failed")
	}

	ui.PrintSuccess("Successfully deleted %s #%d", kind, id)
	return nil
}
