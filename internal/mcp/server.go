// Package mcp exposes tmux session control and push notifications as MCP
// tools, so coding agents can drive the daemon over stdio.
package mcp

import (
	"context"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reattach-app/reattachd/internal/client"
)

// Server is the reattachd MCP server.
type Server struct {
	daemon  *client.Client
	version string
	server  *gomcp.Server
}

// Option configures the MCP server.
type Option func(*Server)

// WithVersion sets the server version string.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates an MCP server that talks to the daemon on the given
// port for notification delivery. tmux tools shell out directly and do
// not need the daemon.
func NewServer(daemonPort int, opts ...Option) *Server {
	s := &Server{
		daemon:  client.New(daemonPort),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "reattachd",
			Version: s.version,
		},
		nil,
	)
	s.registerTools()

	return s
}

// Run starts the MCP server on stdin/stdout. It blocks until the client
// disconnects or the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_sessions",
		Description: "List tmux sessions with their windows and panes",
	}, s.handleListSessions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "capture_pane",
		Description: "Capture the recent output of a tmux pane (target like session:window.pane)",
	}, s.handleCapturePane)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "send_keys",
		Description: "Type text into a tmux pane followed by Enter",
	}, s.handleSendKeys)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_session",
		Description: "Create a detached tmux session in a working directory",
	}, s.handleCreateSession)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "kill_pane",
		Description: "Kill a tmux pane",
	}, s.handleKillPane)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "notify",
		Description: "Send a push notification to all registered devices via the reattachd daemon",
	}, s.handleNotify)
}
