package cmd

import (
	"github.com/huangsam/anomalyplot/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the anomalyplot MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents annotate datasets and inspect anomalies.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager, version)
	},
}
