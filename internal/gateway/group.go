package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type GroupAPI struct {
	c *core
}

func (g *GroupAPI) Get(ctx context.Context, groupID string) (*api.Envelope, error) {
	params := map[string]any{"groupId": groupID}
	return g.c.do(ctx, http.MethodGet, "groups/"+groupID, params, eventbus.Group)
}

// ListMine fetches the groups the session user belongs to.
func (g *GroupAPI) ListMine(ctx context.Context, userID string) (*api.Envelope, error) {
	params := map[string]any{"userId": userID}
	return g.c.do(ctx, http.MethodGet, "users/"+userID+"/groups", params, eventbus.GroupList)
}
