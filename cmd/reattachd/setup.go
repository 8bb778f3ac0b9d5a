package main

import (
	"fmt"
	"os"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/auth"
	"github.com/reattach-app/reattachd/internal/paths"
)

func setupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Start setup mode to register a new device",
		Long: `Generate a setup token and print it as a QR code for the mobile app.

The token is single-use by default; pass --reusable to pair several
devices with the same code. The daemon must be running for the device
to complete registration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			reusable, _ := cmd.Flags().GetBool("reusable")
			expires, _ := cmd.Flags().GetString("expires")

			ttl, err := auth.ParseTTL(expires)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid expiration format: %s. Using default 10m.\n", expires)
				ttl, _ = auth.ParseTTL("10m")
			}

			dataDir, err := paths.DataDir()
			if err != nil {
				return fmt.Errorf("resolve data directory: %w", err)
			}
			authSvc := auth.NewService(paths.AuthFile(dataDir))
			setupToken := authSvc.GenerateSetupToken(reusable, ttl)

			setupURL := fmt.Sprintf("%s?setup_token=%s", url, setupToken)

			fmt.Println("\n  Scan this QR code with the Reattach iOS app:")
			fmt.Println()
			qrterminal.GenerateHalfBlock(setupURL, qrterminal.L, os.Stdout)
			fmt.Printf("\n  URL: %s\n", setupURL)

			notes := []string{}
			if reusable {
				notes = append(notes, "reusable")
			} else {
				notes = append(notes, "single-use")
			}
			if expires == "never" {
				notes = append(notes, "never expires")
			} else {
				notes = append(notes, "expires in "+expires)
			}
			fmt.Printf("\n  Token: %s, %s\n", notes[0], notes[1])
			fmt.Println("  Make sure reattachd daemon is running.")
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("url", "", "External URL for the server (e.g., https://your-server.example.com)")
	cmd.Flags().Bool("reusable", false, "Create a reusable token that can be used multiple times")
	cmd.Flags().String("expires", "10m", "Token expiration time (e.g., 10m, 1h, 1d, never)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
