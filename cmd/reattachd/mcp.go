package main

import (
	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/config"
	"github.com/reattach-app/reattachd/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server for coding agents",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server, exposing tmux session control and push
notifications as tools. Add to a coding agent with:

  claude mcp add reattachd -- reattachd mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")
			server := mcp.NewServer(port, mcp.WithVersion(Version))
			return server.Run(cmd.Context())
		},
	}
	serve.Flags().IntP("port", "p", config.DefaultPort, "Daemon port for the notify tool")

	cmd.AddCommand(serve)
	return cmd
}
