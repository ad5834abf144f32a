package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avalune/wisp/internal/app"
	"github.com/avalune/wisp/internal/config"
	"github.com/avalune/wisp/internal/storage/memos"
)

func memoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo <user-id> [text]",
		Short: "Set or clear the local note for a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := config.LoadConfig()
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			userID := args[0]
			text := strings.Join(args[1:], " ")
			if err := a.SetMemo(ctx, userID, text); err != nil {
				return err
			}
			if text == "" {
				fmt.Printf("memo for %s cleared\n", userID)
			} else {
				fmt.Printf("memo for %s saved\n", userID)
			}
			return nil
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	return cmd
}

func importMemosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-memos <file>",
		Short: "Replace all local notes from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var all []memos.Memo
			if err := json.Unmarshal(data, &all); err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			ctx := context.Background()
			cfg := config.LoadConfig()
			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.ImportMemos(ctx, all); err != nil {
				return err
			}
			fmt.Printf("imported %d memos\n", len(all))
			return nil
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
}
