// Package app assembles the client: transport, event bus, state mirror,
// reconcilers, local storage, push pipeline and the background refresh loop.
package app

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/config"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/gateway"
	"github.com/avalune/wisp/internal/logging"
	"github.com/avalune/wisp/internal/pipeline"
	"github.com/avalune/wisp/internal/reconcile"
	"github.com/avalune/wisp/internal/state"
	"github.com/avalune/wisp/internal/storage"
	"github.com/avalune/wisp/internal/storage/memos"
	"github.com/avalune/wisp/internal/updater"

	_ "modernc.org/sqlite"
)

// App owns every long-lived component of the client.
type App struct {
	Config  *config.Config
	Log     logging.Logger
	Bus     *eventbus.Bus
	State   *state.State
	Gateway *gateway.Gateway
	Updater *updater.Updater

	caller *api.HTTPCaller
	rec    *reconcile.Reconciler
	pipe   *pipeline.Pipeline
	db     *sql.DB
	repos  *storage.Repositories
}

// New wires the full component graph. The returned App is idle until Run.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})))

	caller, err := api.NewHTTPCaller(cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}

	db, repos, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New(log)
	st := state.New()

	rec := reconcile.New(st, bus, log)
	rec.AttachMemos(repos.Memos)
	rec.Register()

	return &App{
		Config:  cfg,
		Log:     log,
		Bus:     bus,
		State:   st,
		Gateway: gateway.New(caller, caller, bus, log),
		Updater: updater.New(nil, bus, log),
		caller:  caller,
		rec:     rec,
		pipe:    pipeline.New(cfg.PipelineURL, bus, log),
		db:      db,
		repos:   repos,
	}, nil
}

// Login authenticates and performs the initial fetch sequence: remote
// config, identity, friends, notifications. The identity reconciliation
// publishes LOGIN, which in turn loads the persisted memos.
func (a *App) Login(ctx context.Context, username, password string) error {
	a.caller.SetCredentials(username, password)

	if _, err := a.Gateway.Config.Get(ctx); err != nil {
		return err
	}
	if _, err := a.Gateway.Users.GetCurrent(ctx); err != nil {
		return err
	}
	if _, err := a.Gateway.Friends.List(ctx, false, 100, 0); err != nil {
		a.Log.Warn(ctx, "initial friend fetch failed", "err", err)
	}
	if _, err := a.Gateway.Notifications.List(ctx, ""); err != nil {
		a.Log.Warn(ctx, "initial notification fetch failed", "err", err)
	}
	return nil
}

// SetMemo persists a local note for a user and applies it to the cached
// record.
func (a *App) SetMemo(ctx context.Context, userID, text string) error {
	return a.rec.SetMemo(ctx, a.repos.Memos, userID, text)
}

// ImportMemos atomically replaces every persisted memo. The cached records
// pick the new set up on the next login.
func (a *App) ImportMemos(ctx context.Context, all []memos.Memo) error {
	return memos.ImportAll(ctx, a.db, all)
}

// Run blocks, keeping the mirror fresh: the pipeline streams push updates
// while a slow poll covers the gaps. Returns when ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go func() {
		_ = a.pipe.Run(ctx)
	}()

	ticker := time.NewTicker(a.Config.NotificationPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !a.State.Session.LoggedIn() {
				continue
			}
			if _, err := a.Gateway.Notifications.List(ctx, ""); err != nil {
				a.Log.Warn(ctx, "notification poll failed", "err", err)
			}
		}
	}
}

// Logout ends the session remotely and clears the local mirror through the
// LOGOUT reconciliation.
func (a *App) Logout(ctx context.Context) error {
	_, err := a.Gateway.Users.Logout(ctx)
	return err
}

// Close releases held resources. Safe after a failed New only on a nil App.
func (a *App) Close() error {
	a.rec.Close()
	return a.db.Close()
}
