package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/auth"
	"github.com/reattach-app/reattachd/internal/paths"
)

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage registered devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDevices()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all registered devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDevices()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke ID",
		Short: "Revoke a device by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authSvc, err := openAuthService()
			if err != nil {
				return err
			}
			if authSvc.RevokeDevice(args[0]) {
				fmt.Printf("Device %s revoked successfully\n", args[0])
			} else {
				fmt.Printf("Device %s not found\n", args[0])
			}
			return nil
		},
	})

	return cmd
}

func openAuthService() (*auth.Service, error) {
	dataDir, err := paths.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	return auth.NewService(paths.AuthFile(dataDir)), nil
}

func listDevices() error {
	authSvc, err := openAuthService()
	if err != nil {
		return err
	}

	devices := authSvc.ListDevices()
	if len(devices) == 0 {
		fmt.Println("No registered devices")
		fmt.Println("\nRun 'reattachd setup --url <URL>' to register a device")
		return nil
	}

	fmt.Println("Registered devices:")
	fmt.Println()
	for _, d := range devices {
		fmt.Printf("  ID:          %s\n", d.ID)
		fmt.Printf("  Name:        %s\n", d.Name)
		fmt.Printf("  Registered:  %s\n", d.RegisteredAt.Format(time.RFC3339))
		if d.LastSeenAt != nil {
			fmt.Printf("  Last seen:   %s\n", d.LastSeenAt.Format(time.RFC3339))
		}
		fmt.Println()
	}
	return nil
}
