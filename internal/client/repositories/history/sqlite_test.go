package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/migrations"
	"github.com/study-upc/studyclient/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func keywords(entries []models.SearchHistoryEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Keyword)
	}
	return out
}

func TestAdd_MostRecentFirstAndDeduplicated(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.Add(ctx, "calculus", base, 20))
	require.NoError(t, r.Add(ctx, "physics", base.Add(time.Minute), 20))
	require.NoError(t, r.Add(ctx, "calculus", base.Add(2*time.Minute), 20))

	got, err := r.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"calculus", "physics"}, keywords(got))
	assert.True(t, got[0].SearchedAt.Equal(base.Add(2*time.Minute)))
}

func TestAdd_TrimsToKeep(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, kw := range []string{"a", "b", "c", "d"} {
		require.NoError(t, r.Add(ctx, kw, base.Add(time.Duration(i)*time.Second), 3))
	}

	got, err := r.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, keywords(got))
}

func TestRemoveAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.Add(ctx, "x", now, 0))
	require.NoError(t, r.Add(ctx, "y", now.Add(time.Second), 0))
	require.NoError(t, r.Remove(ctx, "x"))

	got, err := r.List(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, keywords(got))

	require.NoError(t, r.Clear(ctx))
	got, err = r.List(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.List(ctx, 1)
	require.ErrorContains(t, err, "failed to list search history")
	require.ErrorContains(t, r.Remove(ctx, "k"), "failed to remove search history")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear search history")
	require.Error(t, r.Add(ctx, "k", time.Now(), 1))
}
