package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, keyword string, at time.Time, keep int) error {
	if keep < 1 {
		keep = DefaultLimit
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO search_history (keyword, searched_at) VALUES (?, ?)
			ON CONFLICT(keyword) DO UPDATE SET searched_at = excluded.searched_at
		`, keyword, at.UTC())
		if err != nil {
			return fmt.Errorf("failed to add search history %q: %w", keyword, err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM search_history WHERE keyword NOT IN (
				SELECT keyword FROM search_history ORDER BY searched_at DESC, rowid DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return fmt.Errorf("failed to trim search history: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.SearchHistoryEntry, error) {
	if limit < 1 {
		limit = DefaultLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT keyword, searched_at FROM search_history
		ORDER BY searched_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	defer rows.Close()

	var out []models.SearchHistoryEntry
	for rows.Next() {
		var e models.SearchHistoryEntry
		if err := rows.Scan(&e.Keyword, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search history row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search history rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, keyword string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_history WHERE keyword = ?`, keyword); err != nil {
		return fmt.Errorf("failed to remove search history %q: %w", keyword, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
