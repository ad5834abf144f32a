package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
)

type NotificationAPI struct {
	c *core
}

// List fetches pending notifications. after, when non-empty, limits the fetch
// to notifications created since that timestamp.
func (n *NotificationAPI) List(ctx context.Context, after string) (*api.Envelope, error) {
	var params map[string]any
	if after != "" {
		params = map[string]any{"after": after}
	}
	return n.c.do(ctx, http.MethodGet, "auth/user/notifications", params, eventbus.NotificationList)
}

// Accept responds to a friend-request notification. On success it publishes
// NOTIFICATION:ACCEPT and then NOTIFICATION:HIDE so the item leaves the UI.
//
// A 404 means the server already expired or deleted the notification; local
// state must converge anyway, so the hide event is still published and the
// call reports success. Other failures propagate unchanged with no event.
func (n *NotificationAPI) Accept(ctx context.Context, notificationID string) (*api.Envelope, error) {
	params := map[string]any{"notificationId": notificationID}
	raw, err := n.c.caller.Call(ctx, "auth/user/notifications/"+notificationID+"/accept", api.Options{
		Method: http.MethodPut,
	})
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			n.c.log.Debug(ctx, "notification already gone server-side", "notificationId", notificationID)
			env := n.c.envelope(nil, params)
			n.c.bus.Emit(eventbus.NotificationHide, env)
			return env, nil
		}
		return nil, err
	}

	env := n.c.envelope(raw, params)
	n.c.bus.Emit(eventbus.NotificationAccept, env)
	n.c.bus.Emit(eventbus.NotificationHide, env)
	return env, nil
}

// Hide dismisses a notification, with the same 404-as-success convergence as
// Accept.
func (n *NotificationAPI) Hide(ctx context.Context, notificationID string) (*api.Envelope, error) {
	params := map[string]any{"notificationId": notificationID}
	raw, err := n.c.caller.Call(ctx, "auth/user/notifications/"+notificationID+"/hide", api.Options{
		Method: http.MethodPut,
	})
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			env := n.c.envelope(nil, params)
			n.c.bus.Emit(eventbus.NotificationHide, env)
			return env, nil
		}
		return nil, err
	}

	env := n.c.envelope(raw, params)
	n.c.bus.Emit(eventbus.NotificationHide, env)
	return env, nil
}
