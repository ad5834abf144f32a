package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avalune/wisp/internal/app"
	"github.com/avalune/wisp/internal/config"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/updater"
)

func updateCmd() *cobra.Command {
	var dest string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download the latest build from the update feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.LoadConfig()
			if cfg.UpdateFeedURL == "" {
				return fmt.Errorf("no update feed configured")
			}

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.Bus.On(eventbus.UpdateProgress, func(payload any) {
				p := payload.(updater.Progress)
				if p.Total > 0 {
					fmt.Printf("\r%s %d/%d bytes", p.Status, p.Received, p.Total)
				} else {
					fmt.Printf("\r%s %d bytes", p.Status, p.Received)
				}
			})

			err = a.Updater.Download(ctx, cfg.UpdateFeedURL, dest)
			fmt.Println()
			return err
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	cmd.Flags().StringVar(&dest, "dest", "wisp-update.bin", "Where to write the downloaded build")
	return cmd
}
