package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const notifyCommand = "reattachd notify"

// InstallClaude wires the notify command into ~/.claude/settings.json
// under the Stop and Notification events. Existing unrelated hooks are
// preserved; installing twice is a no-op.
func InstallClaude(settingsPath string) error {
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	root := readJSONObject(settingsPath)
	hooks := objectEntry(root, "hooks")
	ensureClaudeEventHook(hooks, "Stop", "")
	ensureClaudeEventHook(hooks, "Notification", "permission_prompt")

	return writeJSONFile(settingsPath, root)
}

// UninstallClaude removes the notify entries from the Stop and
// Notification events, leaving everything else intact. A missing file
// is not an error.
func UninstallClaude(settingsPath string) error {
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return nil
	}

	root := readJSONObject(settingsPath)
	if hooks, ok := root["hooks"].(map[string]any); ok {
		pruneClaudeEventHook(hooks, "Stop")
		pruneClaudeEventHook(hooks, "Notification")
	}

	return writeJSONFile(settingsPath, root)
}

func ensureClaudeEventHook(hooks map[string]any, eventName, matcher string) {
	entries, _ := hooks[eventName].([]any)

	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		entryMatcher, _ := m["matcher"].(string)
		if entryMatcher == matcher && hasNotifyHook(m) {
			return
		}
	}

	entries = append(entries, map[string]any{
		"matcher": matcher,
		"hooks": []any{map[string]any{
			"type":    "command",
			"command": notifyCommand,
			"timeout": 10,
		}},
	})
	hooks[eventName] = entries
}

func pruneClaudeEventHook(hooks map[string]any, eventName string) {
	entries, ok := hooks[eventName].([]any)
	if !ok {
		return
	}
	kept := entries[:0]
	for _, entry := range entries {
		m, isMap := entry.(map[string]any)
		if isMap && hasNotifyHook(m) {
			continue
		}
		kept = append(kept, entry)
	}
	hooks[eventName] = kept
}

func hasNotifyHook(entry map[string]any) bool {
	inner, _ := entry["hooks"].([]any)
	for _, h := range inner {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := hm["type"].(string)
		cmd, _ := hm["command"].(string)
		if typ == "command" && cmd == notifyCommand {
			return true
		}
	}
	return false
}

// readJSONObject loads a JSON object, degrading to an empty one when the
// file is missing, unparseable, or not an object. Hook installation must
// never destroy a user's settings over a parse hiccup, so callers get a
// map to merge into rather than an error.
func readJSONObject(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return map[string]any{}
	}
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return map[string]any{}
	}
	return root
}

func objectEntry(m map[string]any, key string) map[string]any {
	if obj, ok := m[key].(map[string]any); ok {
		return obj
	}
	obj := map[string]any{}
	m[key] = obj
	return obj
}

func writeJSONFile(path string, root map[string]any) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
