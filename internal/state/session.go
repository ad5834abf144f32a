package state

import (
	"encoding/json"
	"sync"

	"github.com/avalune/wisp/internal/models"
)

// Session holds the current-user singleton. The record does not exist until
// the first successful identity fetch; from then on it is mutated in place
// and never replaced or deleted while the session is active.
type Session struct {
	mu   sync.Mutex
	user *models.CurrentUser
}

func NewSession() *Session {
	return &Session{}
}

// Commit merges an identity payload. The first commit of a session creates
// the record (created=true, the caller's cue to fire LOGIN exactly once);
// later commits overlay the payload onto the existing record, preserving its
// identity and any fields this payload omits. derive runs inside the lock,
// after the merge.
func (s *Session) Commit(raw json.RawMessage, derive func(cu *models.CurrentUser, created bool)) (*models.CurrentUser, bool, error) {
	if !json.Valid(raw) {
		return nil, false, ErrBadShape
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		cu := models.NewCurrentUser()
		if err := json.Unmarshal(raw, cu); err != nil {
			return nil, false, err
		}
		if cu.ID == "" {
			return nil, false, ErrMissingID
		}
		s.user = cu
		if derive != nil {
			derive(cu, true)
		}
		return cu, true, nil
	}

	// Validate against a throwaway record before touching the singleton;
	// decoding into the live record reuses its slice backing arrays, so a
	// mid-decode failure there would leak partial writes.
	if err := json.Unmarshal(raw, models.NewCurrentUser()); err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(raw, s.user); err != nil {
		return nil, false, err
	}
	if derive != nil {
		derive(s.user, false)
	}
	return s.user, false, nil
}

// Current returns the record and whether a session is established.
func (s *Session) Current() (*models.CurrentUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != nil
}

// LoggedIn reports whether the first identity fetch has happened.
func (s *Session) LoggedIn() bool {
	_, ok := s.Current()
	return ok
}

// Update runs fn on the current-user record under the lock. No-op before
// login.
func (s *Session) Update(fn func(cu *models.CurrentUser)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	fn(s.user)
	return true
}

// Reset forgets the session. The next Commit counts as a fresh login.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
