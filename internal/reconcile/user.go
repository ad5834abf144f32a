package reconcile

import (
	"context"
	"time"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/models"
)

func (r *Reconciler) onCurrentUser(env *api.Envelope) {
	if !env.Object() {
		r.log.Warn(context.Background(), "identity payload is not an object", "receipt", env.Receipt)
		return
	}

	cu, created, err := r.state.Session.Commit(env.JSON, func(cu *models.CurrentUser, created bool) {
		r.deriveCurrentUser(cu)
	})
	if err != nil {
		r.log.Warn(context.Background(), "identity payload rejected", "err", err)
		return
	}

	if created {
		r.log.Info(context.Background(), "logged in", "userId", cu.ID, "displayName", cu.DisplayName)
		r.bus.Emit(eventbus.Login, &LoginEvent{JSON: env.JSON, User: cu})
	}
}

// deriveCurrentUser recomputes every derived field of the singleton. Runs
// inside the session lock, directly after a merge.
func (r *Reconciler) deriveCurrentUser(cu *models.CurrentUser) {
	cu.Derived.Trust = models.ComputeTrust(cu.Tags)
	cu.Derived.Languages = models.ComputeLanguages(cu.Tags)

	// Live signals outrank the REST snapshot: the live-location table first,
	// then the presence block the identity endpoint reports, then REST.
	live := r.state.Live.Location(cu.ID)
	if live == "" {
		live = cu.Presence.LocationString()
	}
	cu.Derived.Location = models.ResolveLocation(live, cu.Location, cu.TravelingToLocation)

	cu.Buckets = models.BucketFriends(cu.Friends, r.friendState)
}

// friendState looks up a friend's cached state for bucketing.
func (r *Reconciler) friendState(id string) (string, bool) {
	u, ok := r.state.Users.Get(id)
	if !ok {
		return "", false
	}
	return u.State, true
}

func (r *Reconciler) onUser(env *api.Envelope) {
	if !env.Object() {
		r.log.Warn(context.Background(), "user payload is not an object", "receipt", env.Receipt)
		return
	}
	r.commitUser(env.JSON, false)
}

// commitUser merges one user payload, recomputes derived fields, applies the
// transition timers and — when the user's state actually changed — rebuckets
// the friend list and announces the transition.
func (r *Reconciler) commitUser(raw []byte, markFriend bool) {
	var prevState string
	var known bool
	rec, created, err := r.state.Users.Commit(raw, func(u, prev *models.User, created bool) {
		if prev != nil {
			prevState, known = prev.State, true
		}
		if markFriend {
			u.IsFriend = true
		}
		r.deriveUser(u)
		applyStateTimers(u, prevState, created, r.now())
	})
	if err != nil {
		r.log.Warn(context.Background(), "user payload rejected", "err", err)
		return
	}

	changed := created || (known && prevState != rec.State)
	if changed && rec.IsFriend {
		r.rebucketFriends()
		r.bus.Emit(eventbus.FriendState, &FriendStateEvent{
			UserID:   rec.ID,
			State:    rec.State,
			Location: rec.Derived.Location,
		})
	}
}

// deriveUser recomputes a user's derived fields. Runs inside the store lock,
// directly after a merge.
func (r *Reconciler) deriveUser(u *models.User) {
	u.Derived.Trust = models.ComputeTrust(u.Tags)
	u.Derived.Languages = models.ComputeLanguages(u.Tags)
	u.Derived.Location = models.ResolveLocation(
		r.state.Live.Location(u.ID), u.Location, u.TravelingToLocation)
	if memo, ok := r.memos.get(u.ID); ok {
		u.Derived.Memo = memo
	}
}

// applyStateTimers moves the presence markers only on a real transition;
// re-reconciling an unchanged state leaves them alone.
func applyStateTimers(u *models.User, prevState string, created bool, now time.Time) {
	if !created && prevState == u.State {
		return
	}
	switch u.State {
	case "online":
		u.Derived.OnlineSince = now
		u.Derived.OfflineSince = time.Time{}
	case "offline", "":
		u.Derived.OfflineSince = now
		u.Derived.OnlineSince = time.Time{}
	default:
		// "active" and friends: reachable but not in-world; neither counter
		// applies.
		u.Derived.OnlineSince = time.Time{}
		u.Derived.OfflineSince = time.Time{}
	}
}

func (r *Reconciler) onFriendList(env *api.Envelope) {
	items, ok := r.list(env, eventbus.FriendList)
	if !ok {
		return
	}
	for _, item := range items {
		r.commitUser(item, true)
	}
	r.rebucketFriends()
}

func (r *Reconciler) onFriendDelete(env *api.Envelope) {
	id := env.Param("userId")
	if id == "" {
		return
	}
	r.state.Users.Update(id, func(u *models.User) { u.IsFriend = false })
	r.state.Session.Update(func(cu *models.CurrentUser) {
		cu.Friends = remove(cu.Friends, id)
	})
	r.rebucketFriends()
}

// rebucketFriends recomputes the online/active/offline partition wholesale.
// Never patched incrementally: the partition is a pure function of the friend
// list and each friend's cached state, so recomputation cannot drift.
func (r *Reconciler) rebucketFriends() {
	r.state.Session.Update(func(cu *models.CurrentUser) {
		cu.Buckets = models.BucketFriends(cu.Friends, r.friendState)
	})
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
