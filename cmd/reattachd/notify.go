package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reattach-app/reattachd/internal/agentevent"
	"github.com/reattach-app/reattachd/internal/client"
	"github.com/reattach-app/reattachd/internal/config"
	"github.com/reattach-app/reattachd/internal/tmux"
)

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify [AGENT_JSON]",
		Short: "Send a push notification to registered devices",
		Long: `Send a push notification via the running daemon.

Intended as a coding agent hook: the agent's event JSON comes from
--from-agent-json, the positional argument, or stdin. The tmux pane the
agent runs in is auto-detected so the notification can deep-link back
to it. Pass --body/--title to send a manual notification instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromAgentJSON, _ := cmd.Flags().GetString("from-agent-json")
			body, _ := cmd.Flags().GetString("body")
			title, _ := cmd.Flags().GetString("title")
			target, _ := cmd.Flags().GetString("target")
			port, _ := cmd.Flags().GetInt("port")

			if fromAgentJSON == "" && len(args) > 0 {
				fromAgentJSON = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			return runNotify(ctx, fromAgentJSON, body, title, target, port)
		},
	}

	cmd.Flags().String("from-agent-json", "", "Agent event JSON payload. If omitted, JSON is read from stdin")
	cmd.Flags().String("body", "", "Manual notification body (debug override)")
	cmd.Flags().StringP("title", "t", "", "Manual notification title (debug override)")
	cmd.Flags().String("target", "", `Tmux pane target (e.g., "dev:0.0"). Auto-detected if running inside tmux`)
	cmd.Flags().IntP("port", "p", config.DefaultPort, "Server port")

	return cmd
}

func runNotify(ctx context.Context, fromAgentJSON, body, title, target string, port int) error {
	var payload *agentevent.Payload

	if body != "" || title != "" {
		if title == "" {
			title = "Reattach"
		}
		if body == "" {
			body = "Notification"
		}
		payload = &agentevent.Payload{Title: title, Body: body}
	} else {
		input := fromAgentJSON
		if input == "" {
			input = readStdinIfAvailable()
		}
		if input == "" {
			return fmt.Errorf("no input provided\n  Use --from-agent-json '<json>' or pipe JSON via stdin, or pass --body/--title for debug")
		}

		var err error
		payload, err = agentevent.Parse(input)
		if err != nil {
			return err
		}
		if payload == nil {
			// Non-target event type, skip as success
			return nil
		}
	}

	paneTarget := target
	if paneTarget == "" {
		paneTarget = payload.PaneTarget
	}
	if paneTarget == "" {
		paneTarget = detectTargetFromEnv(ctx)
	}
	if paneTarget == "" && payload.Cwd != "" {
		paneTarget, _ = tmux.FindTargetByPath(ctx, payload.Cwd)
	}
	if paneTarget != "" {
		payload.Title = agentevent.TitleFor(paneTarget, payload.Cwd)
	}

	if err := client.New(port).Notify(ctx, payload.Title, payload.Body, paneTarget); err != nil {
		return err
	}

	if paneTarget != "" {
		fmt.Printf("Notification sent successfully (target: %s)\n", paneTarget)
	} else {
		fmt.Println("Notification sent successfully")
	}
	return nil
}

func detectTargetFromEnv(ctx context.Context) string {
	paneRef := os.Getenv("TMUX_PANE")
	if paneRef == "" {
		return ""
	}
	target, err := tmux.DisplayTarget(ctx, paneRef)
	if err != nil {
		return ""
	}
	return target
}

func readStdinIfAvailable() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
