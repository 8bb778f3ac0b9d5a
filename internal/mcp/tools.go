package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/reattach-app/reattachd/internal/tmux"
)

func (s *Server) handleListSessions(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input ListSessionsInput,
) (*gomcp.CallToolResult, ListSessionsOutput, error) {
	sessions, err := tmux.ListSessions(ctx)
	if err != nil {
		return nil, ListSessionsOutput{}, fmt.Errorf("list sessions: %w", err)
	}
	return nil, ListSessionsOutput{Sessions: sessions, Count: len(sessions)}, nil
}

func (s *Server) handleCapturePane(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input CapturePaneInput,
) (*gomcp.CallToolResult, CapturePaneOutput, error) {
	if input.Target == "" {
		return nil, CapturePaneOutput{}, fmt.Errorf("'target' is required")
	}
	output, err := tmux.CapturePane(ctx, input.Target, input.Lines)
	if err != nil {
		return nil, CapturePaneOutput{}, fmt.Errorf("capture pane %s: %w", input.Target, err)
	}
	return nil, CapturePaneOutput{Output: output}, nil
}

func (s *Server) handleSendKeys(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input SendKeysInput,
) (*gomcp.CallToolResult, SendKeysOutput, error) {
	if input.Target == "" {
		return nil, SendKeysOutput{}, fmt.Errorf("'target' is required")
	}
	if err := tmux.SendKeys(ctx, input.Target, input.Text); err != nil {
		return nil, SendKeysOutput{}, fmt.Errorf("send keys to %s: %w", input.Target, err)
	}
	return nil, SendKeysOutput{Status: "sent"}, nil
}

func (s *Server) handleCreateSession(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input CreateSessionInput,
) (*gomcp.CallToolResult, CreateSessionOutput, error) {
	if input.Name == "" {
		return nil, CreateSessionOutput{}, fmt.Errorf("'name' is required")
	}
	if input.Cwd == "" {
		return nil, CreateSessionOutput{}, fmt.Errorf("'cwd' is required")
	}
	if err := tmux.CreateSession(ctx, input.Name, input.Cwd); err != nil {
		return nil, CreateSessionOutput{}, fmt.Errorf("create session: %w", err)
	}
	return nil, CreateSessionOutput{SessionName: tmux.SessionPrefix + input.Name}, nil
}

func (s *Server) handleKillPane(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input KillPaneInput,
) (*gomcp.CallToolResult, KillPaneOutput, error) {
	if input.Target == "" {
		return nil, KillPaneOutput{}, fmt.Errorf("'target' is required")
	}
	if err := tmux.KillPane(ctx, input.Target); err != nil {
		return nil, KillPaneOutput{}, fmt.Errorf("kill pane %s: %w", input.Target, err)
	}
	return nil, KillPaneOutput{Status: "killed"}, nil
}

func (s *Server) handleNotify(
	ctx context.Context,
	req *gomcp.CallToolRequest,
	input NotifyInput,
) (*gomcp.CallToolResult, NotifyOutput, error) {
	if input.Title == "" {
		return nil, NotifyOutput{}, fmt.Errorf("'title' is required")
	}
	if input.Body == "" {
		return nil, NotifyOutput{}, fmt.Errorf("'body' is required")
	}
	if err := s.daemon.Notify(ctx, input.Title, input.Body, input.PaneTarget); err != nil {
		return nil, NotifyOutput{}, err
	}
	return nil, NotifyOutput{Status: "sent"}, nil
}
