package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/vaultkit/internal/buildinfo"
	"github.com/aidanlsb/vaultkit/internal/logging"
	"github.com/aidanlsb/vaultkit/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run vaultkit as an MCP server",
	Long: `Run vaultkit as an MCP (Model Context Protocol) server.

Agents can discover vaults, analyze their structure and read the configured
mappings through the tools this server exposes.

The server communicates over stdin/stdout using JSON-RPC 2.0. Logs go to stderr.

For use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "vaultkit": {
        "command": "vaultkit",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Don't output anything to stdout except MCP protocol
		server := mcp.NewServer(mcp.Config{
			Version:      buildinfo.Current().Version,
			Locator:      newLocator(),
			Analyzer:     newAnalyzer(),
			MappingsPath: getMappingsPath(),
			MaxDepth:     configuredMaxDepth(),
			Logger:       logging.Named("mcp"),
		})
		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
