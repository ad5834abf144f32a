// Package updater downloads new builds published on the update feed. A
// download is a small state machine; progress is published on the event bus
// so any surface can render it.
package updater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/logging"
)

// Status names a phase of the download state machine.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusFailed      Status = "failed"
)

// ErrBusy is returned when a download is requested while one is in flight.
var ErrBusy = errors.New("download already in progress")

// Progress is the payload of every UPDATE:PROGRESS event and the value
// returned by Progress(). Total is 0 when the server did not send a length.
type Progress struct {
	Status   Status
	Received int64
	Total    int64
}

// Updater downloads one build at a time. Safe for concurrent use.
type Updater struct {
	client *http.Client
	bus    *eventbus.Bus
	log    logging.Logger

	mu     sync.Mutex
	state  Progress
	cancel context.CancelFunc
}

// New returns an Updater publishing progress on bus. A nil client falls back
// to http.DefaultClient.
func New(client *http.Client, bus *eventbus.Bus, log logging.Logger) *Updater {
	if client == nil {
		client = http.DefaultClient
	}
	return &Updater{
		client: client,
		bus:    bus,
		log:    log.With("component", "updater"),
		state:  Progress{Status: StatusIdle},
	}
}

// Progress returns a snapshot of the current download state.
func (u *Updater) Progress() Progress {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Cancel aborts an in-flight download. Progress resets to zero and the next
// emitted event carries the cancelled status. Calling Cancel while idle is a
// no-op.
func (u *Updater) Cancel() {
	u.mu.Lock()
	cancel := u.cancel
	u.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Download fetches url into dest. It blocks until the transfer finishes, is
// cancelled, or fails; run it in a goroutine when the caller must not block.
// Only one download may be in flight at a time.
func (u *Updater) Download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	u.mu.Lock()
	if u.state.Status == StatusDownloading {
		u.mu.Unlock()
		return ErrBusy
	}
	u.state = Progress{Status: StatusDownloading}
	u.cancel = cancel
	u.mu.Unlock()

	// announce the transition before any bytes move so subscribers can show
	// an indeterminate state immediately
	u.bus.Emit(eventbus.UpdateProgress, Progress{Status: StatusDownloading})

	err := u.transfer(ctx, url, dest)

	u.mu.Lock()
	u.cancel = nil
	switch {
	case errors.Is(err, context.Canceled):
		u.state = Progress{Status: StatusCancelled}
	case err != nil:
		u.state.Status = StatusFailed
	default:
		u.state.Status = StatusCompleted
	}
	final := u.state
	u.mu.Unlock()

	u.bus.Emit(eventbus.UpdateProgress, final)
	if err != nil {
		u.log.Error(ctx, "download finished", "status", final.Status, "err", err)
	} else {
		u.log.Info(ctx, "download finished", "status", final.Status, "bytes", final.Received)
	}
	return err
}

func (u *Updater) transfer(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching update", resp.StatusCode)
	}

	u.mu.Lock()
	u.state.Total = resp.ContentLength
	u.mu.Unlock()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, 64*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
			u.advance(int64(n))
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return rerr
		}
	}
}

func (u *Updater) advance(n int64) {
	u.mu.Lock()
	u.state.Received += n
	snap := u.state
	u.mu.Unlock()
	u.bus.Emit(eventbus.UpdateProgress, snap)
}
