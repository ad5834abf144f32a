// Package reconcile contains the event subscribers that merge request
// envelopes into the entity stores. Handlers are registered once, at
// application start; each validates the payload's shape before touching any
// store, performs the whole merge inside one store lock, recomputes derived
// fields unconditionally, and emits secondary events for meaningful
// transitions (LOGIN once per session, friend state changes).
package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/logging"
	"github.com/avalune/wisp/internal/models"
	"github.com/avalune/wisp/internal/state"
)

// LoginEvent is the payload of the LOGIN secondary event, published after
// the current-user record is installed and queryable. Fires exactly once per
// session start.
type LoginEvent struct {
	JSON json.RawMessage
	User *models.CurrentUser
}

// FriendStateEvent is the payload of FRIEND:STATE, published when a friend's
// observed state actually changes (never on a mere refresh).
type FriendStateEvent struct {
	UserID   string
	State    string
	Location string
}

type Reconciler struct {
	state *state.State
	bus   *eventbus.Bus
	log   logging.Logger

	subs []*eventbus.Subscription

	// Clock, swappable in tests. Timers read it only on real transitions.
	now func() time.Time

	memos *memoCache
}

func New(st *state.State, bus *eventbus.Bus, log logging.Logger) *Reconciler {
	return &Reconciler{
		state: st,
		bus:   bus,
		log:   log,
		now:   time.Now,
		memos: newMemoCache(),
	}
}

// Register wires every handler. Call once, before any gateway operation runs.
func (r *Reconciler) Register() {
	on := func(kind eventbus.Kind, h func(*api.Envelope)) {
		r.subs = append(r.subs, r.bus.On(kind, func(p any) {
			env, ok := p.(*api.Envelope)
			if !ok {
				r.log.Warn(context.Background(), "unexpected payload type", "event", string(kind))
				return
			}
			h(env)
		}))
	}

	on(eventbus.Config, r.onConfig)
	on(eventbus.UserCurrent, r.onCurrentUser)
	on(eventbus.User, r.onUser)
	on(eventbus.FriendList, r.onFriendList)
	on(eventbus.FriendDelete, r.onFriendDelete)
	on(eventbus.Avatar, r.onAvatar)
	on(eventbus.AvatarSave, r.onAvatar)
	on(eventbus.AvatarList, r.onAvatarList)
	on(eventbus.AvatarDelete, r.onAvatarDelete)
	on(eventbus.World, r.onWorld)
	on(eventbus.WorldList, r.onWorldList)
	on(eventbus.Notification, r.onNotification)
	on(eventbus.NotificationList, r.onNotificationList)
	on(eventbus.NotificationHide, r.onNotificationHide)
	on(eventbus.Group, r.onGroup)
	on(eventbus.GroupList, r.onGroupList)
	on(eventbus.Favorite, r.onFavorite)
	on(eventbus.FavoriteList, r.onFavoriteList)
	on(eventbus.FavoriteDelete, r.onFavoriteDelete)
	on(eventbus.Logout, r.onLogout)

	on(eventbus.PipelineFriendOnline, r.onPipelineFriendOnline)
	on(eventbus.PipelineFriendOffline, r.onPipelineFriendOffline)
	on(eventbus.PipelineFriendLocation, r.onPipelineFriendLocation)
	on(eventbus.PipelineFriendUpdate, r.onPipelineFriendUpdate)
	on(eventbus.PipelineNotification, r.onNotification)
}

// Close removes every registration.
func (r *Reconciler) Close() {
	for _, sub := range r.subs {
		r.bus.Off(sub)
	}
	r.subs = nil
}

func (r *Reconciler) onConfig(env *api.Envelope) {
	if !env.Object() {
		r.log.Warn(context.Background(), "config payload is not an object", "receipt", env.Receipt)
		return
	}
	r.state.SetRemoteConfig(env.JSON)
}

func (r *Reconciler) onLogout(*api.Envelope) {
	r.state.Reset()
	r.memos.reset()
	r.log.Info(context.Background(), "session ended, local mirror cleared")
}

// list splits an array payload into its raw elements, or reports a shape
// mismatch.
func (r *Reconciler) list(env *api.Envelope, event eventbus.Kind) ([]json.RawMessage, bool) {
	if !env.Array() {
		r.log.Warn(context.Background(), "list payload is not an array",
			"event", string(event), "receipt", env.Receipt)
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(env.JSON, &items); err != nil {
		r.log.Warn(context.Background(), "list payload failed to decode",
			"event", string(event), "err", err)
		return nil, false
	}
	return items, true
}
