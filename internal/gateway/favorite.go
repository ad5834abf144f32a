package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type FavoriteAPI struct {
	c *core
}

func (f *FavoriteAPI) List(ctx context.Context, params map[string]any) (*api.Envelope, error) {
	return f.c.do(ctx, http.MethodGet, "favorites", params, eventbus.FavoriteList)
}

// Add favorites an entity. kind is "friend", "world" or "avatar"; tags names
// the favorite group(s) the entity goes into.
func (f *FavoriteAPI) Add(ctx context.Context, kind, favoriteID string, tags []string) (*api.Envelope, error) {
	params := map[string]any{
		"type":       kind,
		"favoriteId": favoriteID,
		"tags":       tags,
	}
	return f.c.do(ctx, http.MethodPost, "favorites", params, eventbus.Favorite)
}

func (f *FavoriteAPI) Delete(ctx context.Context, favoriteID string) (*api.Envelope, error) {
	params := map[string]any{"favoriteId": favoriteID}
	return f.c.do(ctx, http.MethodDelete, "favorites/"+favoriteID, params, eventbus.FavoriteDelete)
}
