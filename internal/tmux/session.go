package tmux

import (
	"context"
	"strings"
)

// SessionPrefix namespaces sessions created through the API so the client can
// tell its own sessions apart from the operator's.
const SessionPrefix = "claude-"

// agentCommand is launched inside every session created through the API, so
// a freshly created session already has an agent waiting for input.
const agentCommand = "claude"

// CreateSession starts a new detached session rooted at cwd and launches the
// agent in its initial pane.
func CreateSession(ctx context.Context, name, cwd string) error {
	sessionName := SessionPrefix + name
	if _, err := run(ctx, "new-session", "-d", "-s", sessionName, "-c", cwd); err != nil {
		return err
	}
	_, err := run(ctx, "send-keys", "-t", sessionName, agentCommand, "Enter")
	return err
}

// DisplayTarget resolves a pane reference (like $TMUX_PANE) to the canonical
// "session:window.pane" form. Used by the notify client for deep-link targets.
func DisplayTarget(ctx context.Context, paneRef string) (string, error) {
	out, err := run(ctx, "display-message", "-p", "-t", paneRef,
		"#{session_name}:#{window_index}.#{pane_index}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// FindTargetByPath returns the target of the first pane whose working
// directory equals cwd, or "" when none matches.
func FindTargetByPath(ctx context.Context, cwd string) (string, error) {
	out, err := run(ctx, "list-panes", "-a", "-F",
		"#{session_name}:#{window_index}.#{pane_index}|#{pane_current_path}")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		// Split on the last pipe: paths may contain pipes, targets cannot
		idx := strings.LastIndexByte(line, '|')
		if idx < 0 {
			continue
		}
		if line[idx+1:] == cwd {
			return line[:idx], nil
		}
	}
	return "", nil
}
