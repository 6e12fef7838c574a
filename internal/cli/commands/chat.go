package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/tui"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var chatConversationID int64

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start an interactive chat session",
	Long: `Start an interactive chat session answered from your uploaded documents.

A new chat has no conversation id; the server assigns one with the first
reply and follow-up messages continue the same conversation. Use
--conversation to resume an existing one.`,
	Example: `  # Start a new chat
  $ ragchat chat

  # Resume conversation 3
  $ ragchat chat --conversation 3

  # Keyboard controls:
  • Enter sends the message
  • ctrl+n starts a new chat
  • Esc quits`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Int64VarP(&chatConversationID, "conversation", "c", 0, "Conversation id to resume")

	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	session := state.NewChatSession(a.api, a.log)
	defer session.Close()

	session.OnConversationCreated(func(id int64) {
		a.log.Info("conversation created", "id", id)
	})

	ui.ClearScreen()
	ui.PrintChatWelcomeBanner()

	program := tui.NewChatProgram(session, chatConversationID)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	if id := session.ConversationID(); id != 0 {
		ui.PrintInfo("Resume this conversation with 'ragchat chat -c %d'", id)
	}
	return nil
}
