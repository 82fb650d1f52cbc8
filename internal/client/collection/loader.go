package collection

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by Loader.Load when a newer Load started before this
// one finished. The stale page is discarded.
var ErrStale = errors.New("stale page response discarded")

// FetchFunc retrieves one page for a query.
type FetchFunc[T Entity] func(ctx context.Context, q Query) (Page[T], error)

// Loader fetches pages into a Store and makes sure only the response of the
// most recent request is applied.
type Loader[T Entity] struct {
	store *Store[T]
	fetch FetchFunc[T]

	mu       sync.Mutex
	seq      uint64
	inflight int
}

func NewLoader[T Entity](store *Store[T], fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{store: store, fetch: fetch}
}

// Load fetches q and replaces the store's page with the result. On a fetch
// error the store is left untouched. If another Load was started after this
// one, the result is dropped and ErrStale is returned.
func (l *Loader[T]) Load(ctx context.Context, q Query) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.inflight++
	l.mu.Unlock()

	page, err := l.fetch(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--

	if seq != l.seq {
		return ErrStale
	}
	if err != nil {
		return err
	}

	l.store.ReplacePage(page, q)
	return nil
}

// Reload fetches the store's current query again.
func (l *Loader[T]) Reload(ctx context.Context) error {
	return l.Load(ctx, l.store.Query())
}

// Invalidate makes every in-flight Load stale without starting a new one.
// Used when the store is reset, e.g. on logout.
func (l *Loader[T]) Invalidate() {
	l.mu.Lock()
	l.seq++
	l.mu.Unlock()
}

// Loading reports whether any fetch is in flight.
func (l *Loader[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight > 0
}

func (l *Loader[T]) Store() *Store[T] {
	return l.store
}
