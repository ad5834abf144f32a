package gateway

import (
	"context"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type UserAPI struct {
	c *core
}

// GetCurrent fetches the authenticated identity. The USER:CURRENT
// reconciliation creates the session singleton on its first success and fires
// LOGIN.
func (u *UserAPI) GetCurrent(ctx context.Context) (*api.Envelope, error) {
	return u.c.do(ctx, http.MethodGet, "auth/user", nil, eventbus.UserCurrent)
}

// Get fetches one user by id.
func (u *UserAPI) Get(ctx context.Context, userID string) (*api.Envelope, error) {
	params := map[string]any{"userId": userID}
	return u.c.do(ctx, http.MethodGet, "users/"+userID, params, eventbus.User)
}

// Logout ends the remote session. The LOGOUT reconciliation clears the local
// mirror.
func (u *UserAPI) Logout(ctx context.Context) (*api.Envelope, error) {
	return u.c.do(ctx, http.MethodPut, "logout", nil, eventbus.Logout)
}
