package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/study-upc/studyclient/internal/client/collection"
	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/repositories/history"
	"github.com/study-upc/studyclient/internal/logging"
)

var ErrEmptyKeyword = errors.New("search keyword is empty")

// SearchService runs keyword searches and remembers recent keywords locally.
// Only the response of the latest search lands in the store.
type SearchService struct {
	store   *collection.Store[models.SearchResult]
	load    *collection.Loader[models.SearchResult]
	history history.Repository
	logger  logging.Logger
	now     func() time.Time
}

func NewSearchService(api SearchAPI, repo history.Repository, logger logging.Logger, pageSize int) *SearchService {
	if logger == nil {
		logger = logging.Nop{}
	}
	store := collection.NewStore[models.SearchResult](pageSize)
	return &SearchService{
		store:   store,
		load:    collection.NewLoader(store, api.Search),
		history: repo,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SearchService) Store() *collection.Store[models.SearchResult] { return s.store }
func (s *SearchService) Loading() bool                                 { return s.load.Loading() }

// Search looks keyword up from the first page and records it in the history.
// A history write failure is logged and does not fail the search.
func (s *SearchService) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	if s.history != nil {
		if err := s.history.Add(ctx, keyword, s.now(), history.DefaultLimit); err != nil {
			s.logger.Warn(ctx, "failed to save search history", "error", err)
		}
	}

	return s.load.Load(ctx, s.store.Query().WithFilter("keyword", keyword))
}

// Query runs an arbitrary query, e.g. another page of the current search,
// without touching the history.
func (s *SearchService) Query(ctx context.Context, q collection.Query) error {
	return s.load.Load(ctx, q)
}

func (s *SearchService) Keyword() string {
	return s.store.Query().Filters["keyword"]
}

func (s *SearchService) History(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(ctx, history.DefaultLimit)
}

func (s *SearchService) RemoveHistory(ctx context.Context, keyword string) error {
	if s.history == nil {
		return nil
	}
	return s.history.Remove(ctx, strings.TrimSpace(keyword))
}

func (s *SearchService) ClearHistory(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Clear(ctx)
}

// Reset drops the results. The keyword history stays in the local cache.
func (s *SearchService) Reset() {
	s.load.Invalidate()
	s.store.Reset()
}
