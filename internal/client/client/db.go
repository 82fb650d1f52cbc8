package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/study-upc/studyclient/internal/client/migrations"
	"github.com/study-upc/studyclient/internal/client/repositories/history"
	"github.com/study-upc/studyclient/internal/client/repositories/metadata"
	"github.com/study-upc/studyclient/internal/filex"

	_ "modernc.org/sqlite"
)

// Repositories bundles the local cache repositories.
type Repositories struct {
	Metadata metadata.Repository
	History  history.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		History:  history.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}

// InitDatabase opens the SQLite cache at dsn and brings its schema up to
// date. The parent directory of a file path is created if needed.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("prepare local cache: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases consistent.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
