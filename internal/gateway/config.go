package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

// ConfigAPI fetches the remote configuration document. Single-record instance
// of the same fetch → envelope → event protocol as every other kind.
type ConfigAPI struct {
	c *core
}

func (c *ConfigAPI) Get(ctx context.Context) (*api.Envelope, error) {
	return c.c.do(ctx, http.MethodGet, "config", nil, eventbus.Config)
}
