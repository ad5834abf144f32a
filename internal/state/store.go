// Package state owns the in-memory mirror of remote entities: one store per
// kind, the current-user session singleton, the live-location table and the
// cached remote config. Stores are shared and mutable; every mutation happens
// inside a single lock acquisition so overlapping request completions can
// never interleave mid-merge.
package state

import (
	"encoding/json"
	"errors"
	"sync"
)

var (
	ErrMissingID = errors.New("payload has no id")
	ErrBadShape  = errors.New("payload has unexpected shape")
)

// Entity is anything cacheable by id.
type Entity interface {
	EntityID() string
}

// Store is a mapping from entity id to the canonical mutable record for that
// id. At most one record exists per id; a commit for a cached id mutates the
// existing record in place, so references held by readers keep observing
// updates.
type Store[T any, P interface {
	*T
	Entity
}] struct {
	mu      sync.RWMutex
	records map[string]P
	fresh   func() P
}

// NewStore builds a store whose first-seen records come from fresh, the
// default-shape constructor: every field defaulted so consumers can read any
// record without nil-checking.
func NewStore[T any, P interface {
	*T
	Entity
}](fresh func() P) *Store[T, P] {
	return &Store[T, P]{
		records: make(map[string]P),
		fresh:   fresh,
	}
}

// Commit merges a raw payload into the store. The first commit for an id
// creates a default-shaped record and layers the payload on top; later
// commits overlay the payload field-by-field onto the existing record,
// leaving fields absent from this payload untouched (and never touching
// derived fields, which are invisible to the JSON layer).
//
// derive, when non-nil, runs inside the same lock acquisition as the merge —
// the post-merge recomputation of derived fields is atomic with the merge
// itself. It must not call back into the store. prev is a pre-merge snapshot
// of the record (nil on creation) so callers can detect transitions without
// a separate racy read; it is a shallow copy, so only its value-typed fields
// are reliable after the merge.
//
// A payload that fails to decode leaves the store untouched.
func (s *Store[T, P]) Commit(raw json.RawMessage, derive func(rec P, prev *T, created bool)) (P, bool, error) {
	var peek struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return nil, false, ErrBadShape
	}
	if peek.ID == "" {
		return nil, false, ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[peek.ID]
	if !ok {
		rec = s.fresh()
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, false, err
		}
		s.records[peek.ID] = rec
		if derive != nil {
			derive(rec, nil, true)
		}
		return rec, true, nil
	}

	// Decoding straight into the live record would reuse its slice backing
	// arrays, so a mid-decode type error would leak partial writes to every
	// holder of the record. Validate the payload against a throwaway record
	// first; the same bytes decoded into the same type cannot fail twice.
	if err := json.Unmarshal(raw, s.fresh()); err != nil {
		return nil, false, err
	}
	prev := *rec
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, false, err
	}
	if derive != nil {
		derive(rec, &prev, false)
	}
	return rec, false, nil
}

// Get returns the record for id, if cached.
func (s *Store[T, P]) Get(id string) (P, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Update runs fn on the record for id under the store's lock. No-op when the
// id is not cached.
func (s *Store[T, P]) Update(id string, fn func(rec P)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return false
	}
	fn(rec)
	return true
}

// Delete removes the record for id, reporting whether it existed.
func (s *Store[T, P]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	delete(s.records, id)
	return ok
}

// All returns a snapshot slice of the cached records. Order is unspecified.
func (s *Store[T, P]) All() []P {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]P, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}

// Len returns the number of cached records.
func (s *Store[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear drops every record. Used on logout.
func (s *Store[T, P]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]P)
}
