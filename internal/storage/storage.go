// Package storage opens the local SQLite database and wires up the
// repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avalune/wisp/internal/storage/memos"
	"github.com/avalune/wisp/internal/storage/migrations"
	"github.com/pressly/goose/v3"
)

// Repositories bundles the repositories backed by the local database.
type Repositories struct {
	Memos memos.Repository
}

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn, runs migrations and returns
// the repositories. The caller owns closing the returned *sql.DB.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	repos := &Repositories{
		Memos: memos.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
