package mcp

import "github.com/reattach-app/reattachd/internal/tmux"

// ListSessionsInput is the input for the list_sessions MCP tool.
type ListSessionsInput struct{}

// ListSessionsOutput is the output for the list_sessions MCP tool.
type ListSessionsOutput struct {
	Sessions []tmux.Session `json:"sessions"`
	Count    int            `json:"count"`
}

// CapturePaneInput is the input for the capture_pane MCP tool.
type CapturePaneInput struct {
	Target string `json:"target" jsonschema:"Pane target like session:window.pane"`
	Lines  int    `json:"lines,omitempty" jsonschema:"History lines to capture. Default 200"`
}

// CapturePaneOutput is the output for the capture_pane MCP tool.
type CapturePaneOutput struct {
	Output string `json:"output" jsonschema:"Captured pane content including ANSI escapes"`
}

// SendKeysInput is the input for the send_keys MCP tool.
type SendKeysInput struct {
	Target string `json:"target" jsonschema:"Pane target like session:window.pane"`
	Text   string `json:"text" jsonschema:"Text to type into the pane; Enter is appended"`
}

// SendKeysOutput is the output for the send_keys MCP tool.
type SendKeysOutput struct {
	Status string `json:"status" jsonschema:"Always sent on success"`
}

// CreateSessionInput is the input for the create_session MCP tool.
type CreateSessionInput struct {
	Name string `json:"name" jsonschema:"Session name; the claude- prefix is added automatically"`
	Cwd  string `json:"cwd" jsonschema:"Working directory for the new session"`
}

// CreateSessionOutput is the output for the create_session MCP tool.
type CreateSessionOutput struct {
	SessionName string `json:"session_name" jsonschema:"Full name of the created session"`
}

// KillPaneInput is the input for the kill_pane MCP tool.
type KillPaneInput struct {
	Target string `json:"target" jsonschema:"Pane target like session:window.pane"`
}

// KillPaneOutput is the output for the kill_pane MCP tool.
type KillPaneOutput struct {
	Status string `json:"status" jsonschema:"Always killed on success"`
}

// NotifyInput is the input for the notify MCP tool.
type NotifyInput struct {
	Title      string `json:"title" jsonschema:"Notification title"`
	Body       string `json:"body" jsonschema:"Notification body"`
	PaneTarget string `json:"pane_target,omitempty" jsonschema:"Optional pane the notification should deep-link to"`
}

// NotifyOutput is the output for the notify MCP tool.
type NotifyOutput struct {
	Status string `json:"status" jsonschema:"Always sent on success"`
}
