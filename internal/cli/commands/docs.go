package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/state"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

var docsFilter string

// docsCmd is the docs command
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "list uploaded documents",
	Long: `List uploaded documents with their processing status and summary state.

The output includes:
  • Filename, type, size and upload date
  • Processing status (processing, processed, error)
  • Summary text when completed, or the summary state otherwise`,
	Example: `  # List all documents
  $ ragchat docs

  # Filter by filename, type or summary text
  $ ragchat docs --filter report
  $ ragchat docs -f pdf`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVarP(&docsFilter, "filter", "f", "", "Show only documents matching this text")

	docsCmd.SilenceUsage = true
}

func runDocs(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	store := state.NewDocumentStore(a.api, a.log)
	defer store.Close()

	store.Load(ctx)
	if store.Phase() == state.PhaseFailed {
		ui.PrintError("failed to list documents: %s", client.UserMessage(store.Err()))
		return fmt.Errorf("list operation failed")
	}

	docs := store.Filter(docsFilter)
	fmt.Println()
	fmt.Println(ui.RenderDocumentTree(docs))
	fmt.Println(ui.RenderDocumentSummary(len(docs)))
	return nil
}
