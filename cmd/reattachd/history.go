package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reattach-app/reattachd/internal/paths"
	"github.com/reattach-app/reattachd/internal/push"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent notification deliveries",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			dataDir, err := paths.DataDir()
			if err != nil {
				return fmt.Errorf("resolve data directory: %w", err)
			}
			history, err := push.OpenHistory(paths.HistoryFile(dataDir))
			if err != nil {
				return fmt.Errorf("open delivery history: %w", err)
			}
			defer history.Close()

			deliveries, err := history.Recent(limit)
			if err != nil {
				return err
			}
			if len(deliveries) == 0 {
				fmt.Println("No notifications recorded")
				return nil
			}

			for _, d := range deliveries {
				fmt.Printf("%s  %s\n", d.SentAt, d.Title)
				fmt.Printf("  %s\n", d.Body)
				if d.Target != "" {
					fmt.Printf("  target: %s\n", d.Target)
				}
				fmt.Printf("  endpoints: %d, delivered: %d, pruned: %d\n\n",
					d.Endpoints, d.Delivered, d.Pruned)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Max deliveries to show")
	return cmd
}
