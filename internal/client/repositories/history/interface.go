// Package history keeps the most recent search keywords in the local cache.
package history

import (
	"context"
	"time"

	"github.com/study-upc/studyclient/internal/client/models"
)

// DefaultLimit is how many keywords are kept.
const DefaultLimit = 20

type Repository interface {
	// Add records keyword as searched at the given time. A keyword already in
	// the history moves to the front. Entries beyond keep are dropped.
	Add(ctx context.Context, keyword string, at time.Time, keep int) error
	// List returns up to limit entries, most recent first.
	List(ctx context.Context, limit int) ([]models.SearchHistoryEntry, error)
	Remove(ctx context.Context, keyword string) error
	Clear(ctx context.Context) error
}
