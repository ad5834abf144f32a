package state

import (
	"encoding/json"
	"sync"

	"github.com/avalune/wisp/internal/models"
)

// State aggregates every store the reconcilers write and the UI reads.
// Constructed once at application start; Reset clears it on logout.
type State struct {
	Users         *Store[models.User, *models.User]
	Avatars       *Store[models.Avatar, *models.Avatar]
	Worlds        *Store[models.World, *models.World]
	Notifications *Store[models.Notification, *models.Notification]
	Groups        *Store[models.Group, *models.Group]
	Favorites     *Store[models.Favorite, *models.Favorite]

	Session *Session
	Live    *LiveLocations

	remoteConfigMu sync.RWMutex
	remoteConfig   json.RawMessage
}

func New() *State {
	return &State{
		Users:         NewStore(models.NewUser),
		Avatars:       NewStore(models.NewAvatar),
		Worlds:        NewStore(models.NewWorld),
		Notifications: NewStore(models.NewNotification),
		Groups:        NewStore(models.NewGroup),
		Favorites:     NewStore(models.NewFavorite),
		Session:       NewSession(),
		Live:          NewLiveLocations(),
	}
}

// SetRemoteConfig caches the raw remote configuration payload.
func (s *State) SetRemoteConfig(raw json.RawMessage) {
	s.remoteConfigMu.Lock()
	defer s.remoteConfigMu.Unlock()
	s.remoteConfig = raw
}

// RemoteConfig returns the cached remote configuration, or nil before the
// first CONFIG reconciliation.
func (s *State) RemoteConfig() json.RawMessage {
	s.remoteConfigMu.RLock()
	defer s.remoteConfigMu.RUnlock()
	return s.remoteConfig
}

// Reset clears every store and forgets the session. A later identity fetch
// counts as a fresh login.
func (s *State) Reset() {
	s.Users.Clear()
	s.Avatars.Clear()
	s.Worlds.Clear()
	s.Notifications.Clear()
	s.Groups.Clear()
	s.Favorites.Clear()
	s.Session.Reset()
	s.Live.Reset()
	s.SetRemoteConfig(nil)
}
