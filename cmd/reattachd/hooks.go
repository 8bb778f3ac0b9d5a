package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/hooks"
)

func hooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Manage coding agent notification hooks",
		Long: `Install or remove the hooks that make Claude Code and Codex call
'reattachd notify' when an agent turn completes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return installHooks()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install Claude Code + Codex hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return installHooks()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall Claude Code + Codex hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return uninstallHooks()
		},
	})

	return cmd
}

func claudeSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

func codexConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".codex", "config.toml"), nil
}

func installHooks() error {
	claudeFile, err := claudeSettingsPath()
	if err != nil {
		return err
	}
	if err := hooks.InstallClaude(claudeFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update %s: %v\n", claudeFile, err)
	} else {
		fmt.Printf("Updated %s\n", claudeFile)
	}

	codexFile, err := codexConfigPath()
	if err != nil {
		return err
	}
	switch err := hooks.InstallCodex(codexFile); {
	case errors.Is(err, hooks.ErrCodexNotifyConflict):
		fmt.Printf("Skipped Codex update: notify is already configured in %s\n", codexFile)
		fmt.Println(`Add Reattach manually if needed: notify = ["reattachd", "notify"]`)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Failed to update %s: %v\n", codexFile, err)
	default:
		fmt.Printf("Updated %s\n", codexFile)
	}
	return nil
}

func uninstallHooks() error {
	claudeFile, err := claudeSettingsPath()
	if err != nil {
		return err
	}
	if err := hooks.UninstallClaude(claudeFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update %s: %v\n", claudeFile, err)
	} else {
		fmt.Printf("Updated %s\n", claudeFile)
	}

	codexFile, err := codexConfigPath()
	if err != nil {
		return err
	}
	if err := hooks.UninstallCodex(codexFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to update %s: %v\n", codexFile, err)
	} else {
		fmt.Printf("Updated %s\n", codexFile)
	}
	return nil
}
