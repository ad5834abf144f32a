// Package memos provides the persistence layer for per-user memos, the only
// piece of cached state that survives a restart.
package memos

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no memo exists for the requested user.
var ErrNotFound = errors.New("memo not found")

// Memo is a local note attached to a user id. It is never sent to the remote
// service.
type Memo struct {
	UserID   string    `json:"userId"`
	Text     string    `json:"text"`
	EditedAt time.Time `json:"editedAt"`
}

// Repository describes CRUD operations for memos. Implementations are
// typically backed by a local SQLite database.
type Repository interface {
	// Get returns the memo for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (*Memo, error)

	// Set inserts or updates a memo by user id, stamping EditedAt.
	Set(ctx context.Context, memo *Memo) error

	// Delete removes the memo for userID. Deleting a missing memo is not an
	// error.
	Delete(ctx context.Context, userID string) error

	// List returns all memos.
	List(ctx context.Context) ([]Memo, error)
}
