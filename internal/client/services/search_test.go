package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/repositories/history"
)

func newSearch(t *testing.T, api *fakeAPI) *SearchService {
	t.Helper()
	s := NewSearchService(api, history.NewSQLiteRepository(setupDB(t)), nil, 10)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func TestSearch_LoadsResultsAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.results = collection.Page[models.SearchResult]{
		Items: []models.SearchResult{{ID: 1, Title: "Linear algebra"}},
		Total: 1, Page: 1, Size: 10,
	}
	s := newSearch(t, api)

	require.NoError(t, s.Search(ctx, "  algebra "))
	assert.Len(t, s.Store().Items(), 1)
	assert.Equal(t, "algebra", s.Keyword())

	require.NoError(t, s.Search(ctx, "physics"))
	require.NoError(t, s.Search(ctx, "algebra"))

	h, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "algebra", h[0].Keyword)
	assert.Equal(t, "physics", h[1].Keyword)
}

func TestSearch_EmptyKeyword(t *testing.T) {
	api := newFakeAPI()
	s := newSearch(t, api)

	require.ErrorIs(t, s.Search(context.Background(), "   "), ErrEmptyKeyword)
	assert.Empty(t, api.Calls())
}

func TestSearch_FailureStillRemembersKeyword(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.fail("Search", errors.New("offline"))
	s := newSearch(t, api)

	require.Error(t, s.Search(ctx, "calculus"))
	h, err := s.History(ctx)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "calculus", h[0].Keyword)
}

func TestSearch_HistoryIsCapped(t *testing.T) {
	ctx := context.Background()
	s := newSearch(t, newFakeAPI())

	for i := 0; i < history.DefaultLimit+5; i++ {
		require.NoError(t, s.Search(ctx, string(rune('a'+i))))
	}
	h, err := s.History(ctx)
	require.NoError(t, err)
	assert.Len(t, h, history.DefaultLimit)
}

func TestSearch_RemoveAndClearHistory(t *testing.T) {
	ctx := context.Background()
	s := newSearch(t, newFakeAPI())
	require.NoError(t, s.Search(ctx, "one"))
	require.NoError(t, s.Search(ctx, "two"))

	require.NoError(t, s.RemoveHistory(ctx, "one"))
	h, _ := s.History(ctx)
	require.Len(t, h, 1)
	assert.Equal(t, "two", h[0].Keyword)

	require.NoError(t, s.ClearHistory(ctx))
	h, _ = s.History(ctx)
	assert.Empty(t, h)
}

func TestSearch_WithoutHistoryRepo(t *testing.T) {
	s := NewSearchService(newFakeAPI(), nil, nil, 10)
	require.NoError(t, s.Search(context.Background(), "go"))
	h, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h)
}
