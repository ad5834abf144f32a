package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type WorldAPI struct {
	c *core
}

func (w *WorldAPI) Get(ctx context.Context, worldID string) (*api.Envelope, error) {
	params := map[string]any{"worldId": worldID}
	return w.c.do(ctx, http.MethodGet, "worlds/"+worldID, params, eventbus.World)
}

func (w *WorldAPI) List(ctx context.Context, params map[string]any) (*api.Envelope, error) {
	return w.c.do(ctx, http.MethodGet, "worlds", params, eventbus.WorldList)
}
