package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hammadmunir959/ragchat-cli/internal/cli/client"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/config"
	"github.com/hammadmunir959/ragchat-cli/internal/cli/ui"
	"github.com/hammadmunir959/ragchat-cli/pkg/logger"
)

const version = "0.1.0"

var (
	flagServer  string
	flagVerbose bool
)

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "ragchat",
	Short:   "Chat with your documents",
	Version: version,
	Long: `A command-line client for a retrieval-augmented document chat backend.
Upload PDF, CSV, JSON and text files, generate summaries, and ask
questions answered from the document contents.`,
	Example: `  # Check the backend is reachable
  $ ragchat status

  # Upload documents
  $ ragchat upload report.pdf notes.txt

  # List documents and conversations
  $ ragchat docs
  $ ragchat convos

  # Start an interactive chat
  $ ragchat chat

  # Get help on a specific command
  $ ragchat upload --help`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(convosCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(settingsCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// app bundles everything a command needs after setup.
type app struct {
	cfg *config.Config
	log *slog.Logger
	api *client.APIClient
}

// setup loads configuration, initializes logging and builds the API
// client. Every command starts here.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, fmt.Errorf("config load failed")
	}
	if flagServer != "" {
		cfg.Server = flagServer
	}

	log, err := logger.Setup(cfg.LogLevel, flagVerbose)
	if err != nil {
		ui.PrintError("failed to set up logging: %v", err)
		return nil, fmt.Errorf("logger setup failed")
	}

	api, err := client.NewAPIClient(cfg.Server, cfg.Timeout)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}

	return &app{cfg: cfg, log: log, api: api}, nil
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("ragchat version %s\n", version)
}
