// Package cli provides the command-line interface for fixity.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/datapigeon/fixity/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// REST client shared by server-facing commands.
	api *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fixity",
	Short: "EV charging field service copilot",
	Long: `Fixity is the field technician's companion for predictive maintenance
of EV charging stations: ticket queue, generated repair checklists, and a
manual-grounded chat copilot.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = client.New(serverURL)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Fixity server URL (default FIXITY_SERVER_URL or http://localhost:8000)")
}
