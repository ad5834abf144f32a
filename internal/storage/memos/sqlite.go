package memos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avalune/wisp/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the memo for userID.
func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*Memo, error) {
	query := `select user_id, text, edited_at from memos where user_id=?`
	row := r.db.QueryRowContext(ctx, query, userID)

	m := &Memo{}
	if err := row.Scan(&m.UserID, &m.Text, &m.EditedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return m, nil
}

// Set upserts a memo by user id. On conflict the text and edit time are updated.
func (r *SQLiteRepository) Set(ctx context.Context, m *Memo) error {
	query := ` INSERT INTO memos (user_id, text, edited_at)
			values (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET text = excluded.text,
				edited_at = excluded.edited_at
	`
	m.EditedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, m.UserID, m.Text, m.EditedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert memo: %w", err)
	}
	return nil
}

// Delete removes the memo for userID if present.
func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	query := `delete from memos where user_id=?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	return nil
}

// List returns all memos ordered by user id.
func (r *SQLiteRepository) List(ctx context.Context) ([]Memo, error) {
	query := `select user_id, text, edited_at from memos order by user_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select memos: %w", err)
	}
	defer rows.Close()

	var result []Memo
	for rows.Next() {
		var item Memo
		if err := rows.Scan(&item.UserID, &item.Text, &item.EditedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportAll replaces the entire memo table with the given set, atomically.
// Either every memo lands or none do.
func ImportAll(ctx context.Context, db *sql.DB, all []Memo) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from memos`); err != nil {
			return fmt.Errorf("failed to clear memos: %w", err)
		}
		repo := NewSQLiteRepository(tx)
		for i := range all {
			if err := repo.Set(ctx, &all[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
