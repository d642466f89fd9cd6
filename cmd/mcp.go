package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/xmazu/envq/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server (stdio) for AI/IDE integration",
	Long: `Run the Model Context Protocol server on stdio.

Tools: list_keys, list_values, get_value, get_comment, get_header,
set_value, set_comment, set_header, del_key, del_comment, del_header,
audit_recent and audit_verify. Every tool takes an optional path (default:
the nearest .env) and edits keep the rest of the file untouched.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	server := mcpserver.New(mcpserver.Options{
		Version: rootCmd.Version,
		Logger:  logger,
		Audit:   cfg.Audit,
	})
	return server.Run(ctx)
}
