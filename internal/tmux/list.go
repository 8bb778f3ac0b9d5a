package tmux

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Pane is one tmux pane addressable as "session:window.pane".
type Pane struct {
	Index       int    `json:"index"`
	Active      bool   `json:"active"`
	Target      string `json:"target"`
	CurrentPath string `json:"current_path"`
}

// Window groups panes inside a session.
type Window struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Panes  []Pane `json:"panes"`
}

// Session is one tmux session with its window/pane tree.
type Session struct {
	Name     string   `json:"name"`
	Attached bool     `json:"attached"`
	Windows  []Window `json:"windows"`
}

const listFormat = "#{session_name}|#{session_attached}|#{window_index}|#{window_name}|#{window_active}|#{pane_index}|#{pane_active}|#{pane_current_path}"

// ListSessions returns every session with its windows and panes. A tmux
// server that isn't running is an empty list, not an error.
func ListSessions(ctx context.Context) ([]Session, error) {
	out, err := run(ctx, "list-panes", "-a", "-F", listFormat)
	if err != nil {
		if strings.Contains(err.Error(), "no server running") ||
			strings.Contains(err.Error(), "no sessions") {
			return []Session{}, nil
		}
		return nil, err
	}
	return parseSessions(out), nil
}

// parseSessions turns list-panes pipe-delimited output into the session tree.
// Malformed lines are skipped.
func parseSessions(out string) []Session {
	var sessions []Session

	for _, line := range strings.Split(out, "\n") {
		parts := strings.Split(line, "|")
		if len(parts) != 8 {
			continue
		}

		windowIndex, _ := strconv.Atoi(parts[2])
		paneIndex, _ := strconv.Atoi(parts[5])
		pane := Pane{
			Index:       paneIndex,
			Active:      parts[6] == "1",
			Target:      fmt.Sprintf("%s:%d.%d", parts[0], windowIndex, paneIndex),
			CurrentPath: parts[7],
		}

		session := findOrAddSession(&sessions, parts[0], parts[1] == "1")
		window := findOrAddWindow(&session.Windows, windowIndex, parts[3], parts[4] == "1")
		window.Panes = append(window.Panes, pane)
	}
	return sessions
}

func findOrAddSession(sessions *[]Session, name string, attached bool) *Session {
	for i := range *sessions {
		if (*sessions)[i].Name == name {
			return &(*sessions)[i]
		}
	}
	*sessions = append(*sessions, Session{Name: name, Attached: attached})
	return &(*sessions)[len(*sessions)-1]
}

func findOrAddWindow(windows *[]Window, index int, name string, active bool) *Window {
	for i := range *windows {
		if (*windows)[i].Index == index {
			return &(*windows)[i]
		}
	}
	*windows = append(*windows, Window{Index: index, Name: name, Active: active})
	return &(*windows)[len(*windows)-1]
}
