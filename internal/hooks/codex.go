package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	codexNotifyComment = "# Reattach push notification hook"
	codexNotifyLine    = `notify = ["reattachd", "notify"]`
)

// ErrCodexNotifyConflict means the Codex config already routes notify
// somewhere else; the user has to merge by hand.
var ErrCodexNotifyConflict = fmt.Errorf("notify is already configured in the Codex config")

// InstallCodex prepends the notify hook to ~/.codex/config.toml. If a
// different notify target is already configured the file is left alone
// and ErrCodexNotifyConflict is returned.
func InstallCodex(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	existing := ""
	if data, err := os.ReadFile(configPath); err == nil {
		existing = string(data)
	}

	for _, line := range strings.Split(existing, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "notify =") && t != codexNotifyLine {
			return ErrCodexNotifyConflict
		}
	}

	filtered := withoutCodexNotifyLines(existing)
	out := codexNotifyComment + "\n" + codexNotifyLine + "\n"
	if len(filtered) > 0 {
		out += "\n" + strings.Join(filtered, "\n") + "\n"
	}

	if err := os.WriteFile(configPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}
	return nil
}

// UninstallCodex strips the notify hook lines. A missing file is not an
// error.
func UninstallCodex(configPath string) error {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", configPath, err)
	}

	filtered := withoutCodexNotifyLines(string(data))
	out := strings.Join(filtered, "\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(configPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}
	return nil
}

func withoutCodexNotifyLines(content string) []string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		t := strings.TrimSpace(line)
		if t == codexNotifyComment || t == codexNotifyLine {
			continue
		}
		kept = append(kept, line)
	}
	// Drop the trailing empty element a final newline leaves behind
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	return kept
}
