package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avalune/wisp/internal/app"
	"github.com/avalune/wisp/internal/config"
)

func runCmd() *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in and keep the local mirror synchronized",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			password, err := promptPassword()
			if err != nil {
				return err
			}
			return runMirror(username, password)
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	}
	cmd.Flags().StringVar(&username, "username", "", "Account name to log in with")
	return cmd
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func runMirror(username, password string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Login(ctx, username, password); err != nil {
		return err
	}

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		// best-effort remote logout on shutdown
		logoutCtx := context.Background()
		if lerr := a.Logout(logoutCtx); lerr != nil {
			a.Log.Warn(logoutCtx, "logout failed", "err", lerr)
		}
		return nil
	}
	return err
}
