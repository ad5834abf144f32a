package memos

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE memos (
  user_id TEXT PRIMARY KEY,
  text TEXT NOT NULL,
  edited_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSet_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_1", Text: "first"}))

	got, err := r.Get(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)
	assert.False(t, got.EditedAt.IsZero())

	// update for the same user id
	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_1", Text: "second"}))

	got, err = r.Get(ctx, "usr_1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM memos`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "usr_missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_1", Text: "note"}))
	require.NoError(t, r.Delete(ctx, "usr_1"))

	_, err := r.Get(ctx, "usr_1")
	require.ErrorIs(t, err, ErrNotFound)

	// deleting a missing memo is not an error
	require.NoError(t, r.Delete(ctx, "usr_1"))
}

func TestList(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_b", Text: "beta"}))
	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_a", Text: "alpha"}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "usr_a", all[0].UserID)
	assert.Equal(t, "alpha", all[0].Text)
	assert.Equal(t, "usr_b", all[1].UserID)
}

func TestImportAll_ReplacesAtomically(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, &Memo{UserID: "usr_old", Text: "stale"}))

	incoming := []Memo{
		{UserID: "usr_1", Text: "one"},
		{UserID: "usr_2", Text: "two"},
	}
	require.NoError(t, ImportAll(ctx, db, incoming))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	_, err = r.Get(ctx, "usr_old")
	require.ErrorIs(t, err, ErrNotFound)
}
