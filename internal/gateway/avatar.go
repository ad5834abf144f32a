package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type AvatarAPI struct {
	c *core
}

func (a *AvatarAPI) Get(ctx context.Context, avatarID string) (*api.Envelope, error) {
	params := map[string]any{"avatarId": avatarID}
	return a.c.do(ctx, http.MethodGet, "avatars/"+avatarID, params, eventbus.Avatar)
}

// List fetches the caller's avatars. params carries paging and filtering
// options (n, offset, releaseStatus, ...) straight through to the API.
func (a *AvatarAPI) List(ctx context.Context, params map[string]any) (*api.Envelope, error) {
	return a.c.do(ctx, http.MethodGet, "avatars", params, eventbus.AvatarList)
}

// Save updates an avatar. params must include "id"; the response carries the
// updated record.
func (a *AvatarAPI) Save(ctx context.Context, params map[string]any) (*api.Envelope, error) {
	id, _ := params["id"].(string)
	return a.c.do(ctx, http.MethodPut, "avatars/"+id, params, eventbus.AvatarSave)
}

func (a *AvatarAPI) Delete(ctx context.Context, avatarID string) (*api.Envelope, error) {
	params := map[string]any{"avatarId": avatarID}
	return a.c.do(ctx, http.MethodDelete, "avatars/"+avatarID, params, eventbus.AvatarDelete)
}
