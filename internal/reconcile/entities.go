package reconcile

import (
	"context"
	"encoding/json"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/state"
)

// commitRecord is the shared singular-object path for the plain entity kinds.
func commitRecord[T any, P interface {
	*T
	state.Entity
}](r *Reconciler, store *state.Store[T, P], env *api.Envelope, event eventbus.Kind) {
	if !env.Object() {
		r.log.Warn(context.Background(), "payload is not an object",
			"event", string(event), "receipt", env.Receipt)
		return
	}
	if _, _, err := store.Commit(env.JSON, nil); err != nil {
		r.log.Warn(context.Background(), "payload rejected",
			"event", string(event), "err", err)
	}
}

// commitList is the shared array path. Committing by id makes list refreshes
// idempotent: refetching the same collection can never duplicate records.
func commitList[T any, P interface {
	*T
	state.Entity
}](r *Reconciler, store *state.Store[T, P], env *api.Envelope, event eventbus.Kind) {
	items, ok := r.list(env, event)
	if !ok {
		return
	}
	for _, item := range items {
		if _, _, err := store.Commit(item, nil); err != nil {
			r.log.Warn(context.Background(), "list item rejected",
				"event", string(event), "err", err)
		}
	}
}

func (r *Reconciler) onAvatar(env *api.Envelope) {
	commitRecord(r, r.state.Avatars, env, eventbus.Avatar)
}

func (r *Reconciler) onAvatarList(env *api.Envelope) {
	commitList(r, r.state.Avatars, env, eventbus.AvatarList)
}

func (r *Reconciler) onAvatarDelete(env *api.Envelope) {
	if id := env.Param("avatarId"); id != "" {
		r.state.Avatars.Delete(id)
	}
}

func (r *Reconciler) onWorld(env *api.Envelope) {
	commitRecord(r, r.state.Worlds, env, eventbus.World)
}

func (r *Reconciler) onWorldList(env *api.Envelope) {
	commitList(r, r.state.Worlds, env, eventbus.WorldList)
}

func (r *Reconciler) onNotification(env *api.Envelope) {
	commitRecord(r, r.state.Notifications, env, eventbus.Notification)
}

func (r *Reconciler) onNotificationList(env *api.Envelope) {
	commitList(r, r.state.Notifications, env, eventbus.NotificationList)
}

// onNotificationHide removes the record; the event may come from a normal
// hide, an accept, or the 404-as-success convergence path, and in the latter
// case the envelope has no body — the id travels in the request params.
func (r *Reconciler) onNotificationHide(env *api.Envelope) {
	id := env.Param("notificationId")
	if id == "" && env.Object() {
		var peek struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(env.JSON, &peek) == nil {
			id = peek.ID
		}
	}
	if id == "" {
		r.log.Warn(context.Background(), "hide event without notification id", "receipt", env.Receipt)
		return
	}
	r.state.Notifications.Delete(id)
}

func (r *Reconciler) onGroup(env *api.Envelope) {
	commitRecord(r, r.state.Groups, env, eventbus.Group)
}

func (r *Reconciler) onGroupList(env *api.Envelope) {
	commitList(r, r.state.Groups, env, eventbus.GroupList)
}

func (r *Reconciler) onFavorite(env *api.Envelope) {
	commitRecord(r, r.state.Favorites, env, eventbus.Favorite)
}

func (r *Reconciler) onFavoriteList(env *api.Envelope) {
	commitList(r, r.state.Favorites, env, eventbus.FavoriteList)
}

func (r *Reconciler) onFavoriteDelete(env *api.Envelope) {
	if id := env.Param("favoriteId"); id != "" {
		r.state.Favorites.Delete(id)
	}
}
