// Gmail assistant serves Gmail access and AI email writing tools through
// Model Context Protocol.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gmail-assistant",
		Short:        "Gmail MCP server with summaries, replies and tone tools",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newTonesCmd(), newScoreCmd())
	return root
}
