package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/loader"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/types"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
)

// uploadCmd is the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "upload documents to the backend",
	Long: `Upload one or more documents for indexing.

Supported file types: .pdf, .csv, .json, .txt. Files are validated
locally before any network traffic: unsupported extensions and files
whose content does not match their extension are rejected up front.`,
	Example: `  # Upload a single document
  $ ragchat upload report.pdf

  # Upload several at once
  $ ragchat upload report.pdf data.csv notes.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.SilenceUsage = true
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	// Validate everything first so one bad file fails the batch before
	// any bytes are sent.
	files := make([]types.UploadFile, 0, len(args))
	for _, path := range args {
		f, err := loader.LoadFromFile(path)
		if err != nil {
			ui.PrintError("%s", client.UserMessage(err))
			return fmt.Errorf("upload validation failed")
		}
		files = append(files, *f)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()

	ui.PrintInfo("Uploading %d file(s) to %s...", len(files), a.cfg.Server)
	result, err := a.api.Upload(ctx, files)
	if err != nil {
		ui.PrintError("upload failed: %s", client.UserMessage(err))
		return fmt.Errorf("upload failed")
	}

	for _, up := range result.Results {
		if up.Success {
			ui.PrintSuccess("%s uploaded (#%d)", up.Filename, up.DocumentID)
		} else {
			ui.PrintError("%s rejected: %s", up.Filename, up.Message)
		}
	}
	for _, failed := range result.Errors {
		ui.PrintError("%s rejected: %s", failed.Filename, failed.Error)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d file(s) rejected by the server", len(result.Errors))
	}
	return nil
}
