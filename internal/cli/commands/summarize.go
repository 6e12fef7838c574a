package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var summarizeNoWait bool

// summarizeCmd is the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <doc-id>",
	Short: "generate a summary for a document",
	Long: `Trigger asynchronous summary generation for a document.

The backend runs the job in the background. The command waits briefly
and re-fetches the document list once; a slow job may still show as
generating afterwards, in which case 'ragchat docs' later will show the
finished summary.`,
	Example: `  # Generate a summary and wait for the re-fetch
  $ ragchat summarize 7

  # Trigger only, do not wait
  $ ragchat summarize 7 --no-wait`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeNoWait, "no-wait", false, "Trigger generation without waiting for the re-fetch")

	summarizeCmd.SilenceUsage = true
}

func runSummarize(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "document")
	if err != nil {
		return err
	}

	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	store := state.NewDocumentStore(a.api, a.log)
	defer store.Close()
	store.RefreshDelay = a.cfg.SummaryRefreshDelay

	done, err := store.GenerateSummary(ctx, id)
	if err != nil {
		ui.PrintError("failed to trigger summary: %s", client.UserMessage(err))
		return fmt.Errorf("summary trigger failed")
	}
	ui.PrintSuccess("Summary generation started for document #%d", id)

	if summarizeNoWait {
		return nil
	}

	ui.PrintInfo("Waiting %s for the first result...", a.cfg.SummaryRefreshDelay)
	<-done

	for _, doc := range store.Documents() {
		if doc.ID != id {
			continue
		}
		switch {
		case doc.SummaryStatus == types.SummaryCompleted && doc.Summary != nil:
			fmt.Println()
			ui.PrintSuccessBox(doc.Filename, *doc.Summary)
		case doc.SummaryStatus == types.SummaryFailed:
			fmt.Println()
			ui.PrintErrorBox(doc.Filename, "Summary generation failed. Try again, or check the server logs.")
			return fmt.Errorf("summary generation failed")
		default:
			ui.PrintInfo("Still generating; run 'ragchat docs' later to see the summary.")
		}
		return nil
	}

	ui.PrintInfo("Run 'ragchat docs' later to see the summary.")
	return nil
}

// parseID parses a positive numeric id argument.
func parseID(arg, kind string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		ui.PrintError("invalid %s id: %s", kind, arg)
		return 0, fmt.Errorf("invalid %s id", kind)
	}
	return id, nil
}
