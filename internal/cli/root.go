// Package cli implements the poolctl command line client for the
// poolhouse HTTP API: commissioner operations (create pools, change
// status) and member operations (claim a strip or square).
package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL  string
	jsonOutput bool
)

// NewRootCmd creates a new root command for the CLI
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poolctl",
		Short: "poolctl is a command line client for the poolhouse server",
		Long: `poolctl is a command line client for the poolhouse server.
It lets a commissioner create and manage pools, and lets members claim
strips and squares from the command line.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8290", "Server base URL")
	cmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	cmd.AddCommand(newCreatePoolCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newClaimCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
