package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type FriendAPI struct {
	c *core
}

// List fetches one page of the friend list. offline selects the offline half
// of the roster; the API splits the roster across the two queries.
func (f *FriendAPI) List(ctx context.Context, offline bool, n, offset int) (*api.Envelope, error) {
	params := map[string]any{
		"offline": offline,
		"n":       n,
		"offset":  offset,
	}
	return f.c.do(ctx, http.MethodGet, "auth/user/friends", params, eventbus.FriendList)
}

// Status fetches the friendship state between the session user and userID.
func (f *FriendAPI) Status(ctx context.Context, userID string) (*api.Envelope, error) {
	params := map[string]any{"userId": userID}
	return f.c.do(ctx, http.MethodGet, "user/"+userID+"/friendStatus", params, eventbus.FriendStatus)
}

// Delete unfriends userID.
func (f *FriendAPI) Delete(ctx context.Context, userID string) (*api.Envelope, error) {
	params := map[string]any{"userId": userID}
	return f.c.do(ctx, http.MethodDelete, "auth/user/friends/"+userID, params, eventbus.FriendDelete)
}
