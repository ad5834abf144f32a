package state

import (
	"sync"
	"time"
)

// LiveLocation is one user's location according to a live signal (the push
// pipeline or the local session log), recorded with the instant the signal
// arrived.
type LiveLocation struct {
	UserID   string
	Location string
	Since    time.Time
}

// LiveLocations tracks live presence signals per user. While an entry exists
// for a user it outranks whatever location the REST mirror reports.
type LiveLocations struct {
	mu     sync.RWMutex
	byUser map[string]LiveLocation
}

func NewLiveLocations() *LiveLocations {
	return &LiveLocations{byUser: make(map[string]LiveLocation)}
}

// Set records a live location. Re-recording the same location keeps the
// original Since timestamp; the clock marks transitions, not refreshes.
func (l *LiveLocations) Set(userID, location string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.byUser[userID]; ok && cur.Location == location {
		return
	}
	l.byUser[userID] = LiveLocation{UserID: userID, Location: location, Since: now}
}

// Clear forgets the live signal for a user (they went offline or the signal
// source disconnected).
func (l *LiveLocations) Clear(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byUser, userID)
}

// Get returns the live location for a user, if a signal is active.
func (l *LiveLocations) Get(userID string) (LiveLocation, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ll, ok := l.byUser[userID]
	return ll, ok
}

// Location returns just the location string, or "" without an active signal.
func (l *LiveLocations) Location(userID string) string {
	ll, ok := l.Get(userID)
	if !ok {
		return ""
	}
	return ll.Location
}

// Reset drops every live signal.
func (l *LiveLocations) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byUser = make(map[string]LiveLocation)
}
