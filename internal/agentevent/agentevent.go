// Package agentevent interprets the JSON blobs coding agents emit from
// their turn-completion hooks and turns them into notification payloads.
package agentevent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Payload is what a hook event boils down to: a notification plus
// optional context for routing the reader back to the right pane.
type Payload struct {
	Title      string
	Body       string
	Cwd        string
	PaneTarget string
}

type rawEvent struct {
	Type                 string `json:"type"`
	Agent                string `json:"agent"`
	Cwd                  string `json:"cwd"`
	LastAssistantMessage string `json:"last-assistant-message"`
	TranscriptPath       string `json:"transcript_path"`
}

// Parse reads one agent hook event. Codex events carry a "type" field and
// only "agent-turn-complete" is interesting; other typed events yield
// (nil, nil) so hook wiring can fire on everything without spamming.
// Claude Code events carry no "type" and are always notified.
func Parse(input string) (*Payload, error) {
	var ev rawEvent
	if err := json.Unmarshal([]byte(input), &ev); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	if ev.Type != "" && ev.Type != "agent-turn-complete" {
		return nil, nil
	}

	title := ev.Agent
	if title == "" {
		if ev.Type != "" {
			title = "Codex"
		} else {
			title = "Coding Agent"
		}
	}

	body := ev.LastAssistantMessage
	if body == "" {
		body = "Waiting for input"
		if ev.TranscriptPath != "" {
			if last := LastAssistantMessage(ev.TranscriptPath); last != "" {
				body = last
			}
		}
	}

	// The working directory's basename makes a better title than the
	// agent's name once we know where the agent is running.
	if ev.Cwd != "" {
		if dir := filepath.Base(ev.Cwd); dir != "." && dir != string(filepath.Separator) {
			title = dir
		}
	}

	return &Payload{Title: title, Body: body, Cwd: ev.Cwd}, nil
}

type transcriptLine struct {
	Type    string `json:"type"`
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// LastAssistantMessage scans a JSONL transcript from the end and returns
// the text of the most recent assistant message, or "" when there is none
// or the file is unreadable.
func LastAssistantMessage(transcriptPath string) string {
	f, err := os.Open(transcriptPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	for i := len(lines) - 1; i >= 0; i-- {
		var tl transcriptLine
		if err := json.Unmarshal([]byte(lines[i]), &tl); err != nil {
			return ""
		}
		if tl.Type != "assistant" {
			continue
		}
		var texts []string
		for _, c := range tl.Message.Content {
			if c.Type == "text" && c.Text != "" {
				texts = append(texts, c.Text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n")
		}
	}
	return ""
}

// TitleFor combines a tmux target with the working directory into a
// notification title, e.g. "dev:0 · reattachd". The pane index is dropped
// since sessions and windows are what users recognize.
func TitleFor(target, cwd string) string {
	if cwd != "" {
		if dir := filepath.Base(cwd); dir != "." && dir != string(filepath.Separator) {
			sessionWindow, _, _ := strings.Cut(target, ".")
			return fmt.Sprintf("%s · %s", sessionWindow, dir)
		}
	}
	return target
}
