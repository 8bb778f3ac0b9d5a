package tmux

import (
	"context"
	"fmt"
)

// CapturePane returns the last `lines` lines of scrollback for a pane,
// including escape sequences so the client can render colors.
func CapturePane(ctx context.Context, target string, lines int) (string, error) {
	if lines <= 0 {
		lines = 200
	}
	return run(ctx, "capture-pane", "-t", target, "-p", "-e", "-S", fmt.Sprintf("-%d", lines))
}

// SendKeys types text into a pane literally, then presses Enter.
func SendKeys(ctx context.Context, target, text string) error {
	if _, err := run(ctx, "send-keys", "-t", target, "-l", text); err != nil {
		return err
	}
	_, err := run(ctx, "send-keys", "-t", target, "Enter")
	return err
}

// SendEscape presses the Escape key in a pane.
func SendEscape(ctx context.Context, target string) error {
	_, err := run(ctx, "send-keys", "-t", target, "Escape")
	return err
}

// KillPane closes a pane (and its window/session if it was the last one).
func KillPane(ctx context.Context, target string) error {
	_, err := run(ctx, "kill-pane", "-t", target)
	return err
}
