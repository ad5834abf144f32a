// Package gateway holds one method per remote operation, grouped into small
// per-kind clients. Every operation performs exactly one network round trip
// through the api.Caller boundary, wraps the raw response into an
// api.Envelope and publishes exactly one primary event; it never mutates the
// entity stores itself. Reconciliation is the subscribers' job — that split
// is what lets any number of call sites request the same data without
// duplicating merge logic.
//
// A failed call propagates its error to the caller unchanged and publishes
// nothing, with two documented exceptions: stale notification responses
// (404 becomes a NOTIFICATION:HIDE so the dead item leaves the UI) and the
// two-phase upload pipeline (compensating finish calls before re-throwing).
package gateway

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/logging"
)

type core struct {
	caller   api.Caller
	uploader api.Uploader
	bus      *eventbus.Bus
	log      logging.Logger
}

// Gateway is the full set of per-kind clients, sharing one transport and one
// bus. Constructed once at application start.
type Gateway struct {
	Users         *UserAPI
	Avatars       *AvatarAPI
	Worlds        *WorldAPI
	Notifications *NotificationAPI
	Friends       *FriendAPI
	Groups        *GroupAPI
	Favorites     *FavoriteAPI
	Config        *ConfigAPI
	Files         *FileAPI
}

func New(caller api.Caller, uploader api.Uploader, bus *eventbus.Bus, log logging.Logger) *Gateway {
	c := &core{caller: caller, uploader: uploader, bus: bus, log: log}
	return &Gateway{
		Users:         &UserAPI{c},
		Avatars:       &AvatarAPI{c},
		Worlds:        &WorldAPI{c},
		Notifications: &NotificationAPI{c},
		Friends:       &FriendAPI{c},
		Groups:        &GroupAPI{c},
		Favorites:     &FavoriteAPI{c},
		Config:        &ConfigAPI{c},
		Files:         &FileAPI{c},
	}
}

// do is the shared round-trip: call, envelope, emit, return.
func (c *core) do(ctx context.Context, method, endpoint string, params map[string]any, kind eventbus.Kind) (*api.Envelope, error) {
	raw, err := c.caller.Call(ctx, endpoint, api.Options{Method: method, Params: params})
	if err != nil {
		return nil, err
	}
	env := c.envelope(raw, params)
	c.log.Debug(ctx, "api response", "event", string(kind), "receipt", env.Receipt)
	c.bus.Emit(kind, env)
	return env, nil
}

func (c *core) envelope(raw json.RawMessage, params map[string]any) *api.Envelope {
	return &api.Envelope{Receipt: uuid.NewString(), JSON: raw, Params: params}
}
