// ABOUTME: Root command and global flags for the triprouter CLI
// ABOUTME: Registers every subcommand and enforces flag exclusivity
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
████████╗██████╗ ██╗██████╗
╚══██╔══╝██╔══██╗██║██╔══██╗
   ██║   ██████╔╝██║██████╔╝
   ██║   ██╔══██╗██║██╔═══╝
   ██║   ██║  ██║██║██║
   ╚═╝   ╚═╝  ╚═╝╚═╝╚═╝  router`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triprouter",
		Short: "Cost-aware query router for a travel assistant",
		Long: banner + `

Classifies each user message into TRIVIAL, INFORMATIVE, COMPLEX,
VISION or CRITICAL and sends it to the cheapest model that can
handle it. Keeps per-session conversation memory in SQLite or
Charm cloud and serves the assistant over HTTP or MCP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, table (export: yaml, json, markdown)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewRouteCmd())
	cmd.AddCommand(NewContextCmd())
	cmd.AddCommand(NewRecordCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewSummarizeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
