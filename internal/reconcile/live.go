package reconcile

import (
	"context"
	"encoding/json"

	"github.com/avalune/wisp/internal/api"
	"github.com/avalune/wisp/internal/eventbus"
	"github.com/avalune/wisp/internal/models"
)

// liveFrame is the content shape shared by the pipeline's friend events.
type liveFrame struct {
	UserID              string          `json:"userId"`
	Location            string          `json:"location"`
	TravelingToLocation string          `json:"travelingToLocation"`
	User                json.RawMessage `json:"user"`
}

func (r *Reconciler) decodeLiveFrame(env *api.Envelope, event eventbus.Kind) (liveFrame, bool) {
	var f liveFrame
	if !env.Object() {
		r.log.Warn(context.Background(), "pipeline frame is not an object", "event", string(event))
		return f, false
	}
	if err := json.Unmarshal(env.JSON, &f); err != nil || f.UserID == "" {
		r.log.Warn(context.Background(), "pipeline frame rejected", "event", string(event), "err", err)
		return f, false
	}
	return f, true
}

// onPipelineFriendOnline handles a friend coming online according to the
// push stream. The embedded user object, when present, is merged first so
// the transition works from fresh fields.
func (r *Reconciler) onPipelineFriendOnline(env *api.Envelope) {
	f, ok := r.decodeLiveFrame(env, eventbus.PipelineFriendOnline)
	if !ok {
		return
	}
	if f.User != nil {
		r.commitUser(f.User, true)
	}
	if f.Location != "" {
		r.state.Live.Set(f.UserID, f.Location, r.now())
	}
	r.setFriendLiveState(f.UserID, "online")
}

func (r *Reconciler) onPipelineFriendOffline(env *api.Envelope) {
	f, ok := r.decodeLiveFrame(env, eventbus.PipelineFriendOffline)
	if !ok {
		return
	}
	r.state.Live.Clear(f.UserID)
	r.setFriendLiveState(f.UserID, "offline")
}

// onPipelineFriendLocation records the live location; it wins over whatever
// the REST mirror says until the live signal goes away.
func (r *Reconciler) onPipelineFriendLocation(env *api.Envelope) {
	f, ok := r.decodeLiveFrame(env, eventbus.PipelineFriendLocation)
	if !ok {
		return
	}
	if f.User != nil {
		r.commitUser(f.User, true)
	}
	r.state.Live.Set(f.UserID, f.Location, r.now())
	r.state.Users.Update(f.UserID, func(u *models.User) { r.deriveUser(u) })
}

func (r *Reconciler) onPipelineFriendUpdate(env *api.Envelope) {
	f, ok := r.decodeLiveFrame(env, eventbus.PipelineFriendUpdate)
	if !ok {
		return
	}
	if f.User != nil {
		r.commitUser(f.User, true)
	}
}

// setFriendLiveState applies a push-signalled state, runs the transition
// timers, rebuckets and announces the change. No-ops when the state did not
// actually change.
func (r *Reconciler) setFriendLiveState(userID, newState string) {
	var changed bool
	var location string
	found := r.state.Users.Update(userID, func(u *models.User) {
		prev := u.State
		u.State = newState
		r.deriveUser(u)
		applyStateTimers(u, prev, false, r.now())
		changed = prev != newState
		location = u.Derived.Location
	})
	if !found {
		// First sighting: synthesize the minimal record so bucketing works.
		raw, _ := json.Marshal(map[string]any{"id": userID, "state": newState})
		r.commitUser(raw, true)
		return
	}
	if changed {
		r.rebucketFriends()
		r.bus.Emit(eventbus.FriendState, &FriendStateEvent{
			UserID:   userID,
			State:    newState,
			Location: location,
		})
	}
}
