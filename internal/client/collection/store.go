package collection

import (
	"slices"
	"sync"
)

// Store holds one page of entities and its pagination metadata for a single
// query context. It is safe for concurrent use.
type Store[T Entity] struct {
	mu          sync.RWMutex
	items       []T
	total       int64
	page        int
	size        int
	query       Query
	defaultSize int
}

// NewStore returns an empty store on page 1 with the given page size.
func NewStore[T Entity](size int) *Store[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	s := &Store[T]{defaultSize: size}
	s.resetLocked()
	return s
}

// ReplacePage overwrites the store with a freshly fetched page. The last call
// wins; the store does not compare it with earlier requests.
//
// The page is normalised on the way in: duplicate ids keep their first
// occurrence, items beyond size are dropped, page and size are clamped to 1
// and total is raised to at least the number of items kept.
func (s *Store[T]) ReplacePage(p Page[T], q Query) {
	size := p.Size
	if size < 1 {
		size = q.Size
	}
	if size < 1 {
		size = s.defaultSize
	}

	items := make([]T, 0, min(len(p.Items), size))
	seen := make(map[int64]struct{}, len(p.Items))
	for _, it := range p.Items {
		if len(items) == size {
			break
		}
		id := it.EntityID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, it)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = items
	s.total = max(p.Total, int64(len(items)))
	s.page = max(p.Page, 1)
	s.size = size
	s.query = q.clone()
	s.query.Page = s.page
	s.query.Size = s.size
}

// Upsert replaces the item with the same id in place. It reports whether an
// item was replaced; an entity that is not on the page is ignored, since
// there is no way to tell where it would belong.
func (s *Store[T]) Upsert(e T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(e.EntityID())
	if i < 0 {
		return false
	}
	s.items[i] = e
	return true
}

// Prepend inserts e at the head of the page and counts it in total. If an item
// with the same id is already present it is replaced in place instead and
// total is unchanged. When the page is full the last item is shifted off; it
// now belongs to the next page.
func (s *Store[T]) Prepend(e T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(e.EntityID()); i >= 0 {
		s.items[i] = e
		return false
	}

	s.items = slices.Insert(s.items, 0, e)
	if len(s.items) > s.size {
		s.items = s.items[:s.size]
	}
	s.total++
	return true
}

// Remove drops the item with the given id and decrements total. It reports
// whether anything was removed. The gap is not refilled until the next fetch.
func (s *Store[T]) Remove(id int64) bool {
	_, ok := s.Detach(id)
	return ok
}

// Detach works like Remove but also returns a token that Reattach uses to put
// the item back where it was.
func (s *Store[T]) Detach(id int64) (Removal[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Removal[T]{}, false
	}

	r := Removal[T]{Index: i, Entity: s.items[i]}
	s.items = slices.Delete(s.items, i, i+1)
	if s.total > 0 {
		s.total--
	}
	return r, true
}

// Reattach undoes a Detach. The item goes back to its old index (or the end
// of the page if the page has since shrunk) and total is incremented. If the
// id is already on the page again nothing changes. If the page is full the
// item is not reinserted, but total is still restored because the item still
// exists on the server.
func (s *Store[T]) Reattach(r Removal[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(r.Entity.EntityID()) >= 0 {
		return
	}

	s.total++
	if len(s.items) >= s.size {
		return
	}
	idx := min(max(r.Index, 0), len(s.items))
	s.items = slices.Insert(s.items, idx, r.Entity)
}

// Update applies fn to a copy of the item with the given id and stores the
// result in place. It returns the value the item had before fn ran.
func (s *Store[T]) Update(id int64, fn func(T) T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexLocked(id)
	if i < 0 {
		return zero, false
	}

	prev := s.items[i]
	next := fn(prev)
	if next.EntityID() != id {
		return zero, false
	}
	s.items[i] = next
	return prev, true
}

// UpdateAll applies fn to every item on the page.
func (s *Store[T]) UpdateAll(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.items {
		next := fn(it)
		if next.EntityID() == it.EntityID() {
			s.items[i] = next
		}
	}
}

// Snapshot captures the whole store.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot[T]{
		items: slices.Clone(s.items),
		total: s.total,
		page:  s.page,
		size:  s.size,
		query: s.query.clone(),
	}
}

// Restore puts back a state captured by Snapshot, discarding anything that
// happened in between.
func (s *Store[T]) Restore(snap Snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.Clone(snap.items)
	s.total = snap.total
	s.page = max(snap.page, 1)
	s.size = max(snap.size, 1)
	s.query = snap.query.clone()
}

// Reset clears the store back to an empty first page.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store[T]) resetLocked() {
	s.items = nil
	s.total = 0
	s.page = 1
	s.size = s.defaultSize
	s.query = NewQuery(s.defaultSize)
}

// Items returns a copy of the current page in server order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	i := s.indexLocked(id)
	if i < 0 {
		return zero, false
	}
	return s.items[i], true
}

func (s *Store[T]) Contains(id int64) bool {
	_, ok := s.Get(id)
	return ok
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *Store[T]) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Store[T]) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Query returns the parameters that produced the current page.
func (s *Store[T]) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query.clone()
}

// HasMore reports whether pages exist after the current one.
func (s *Store[T]) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(s.page)*int64(s.size) < s.total
}

// TotalPages is ceil(total/size), and never less than 1.
func (s *Store[T]) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalPagesLocked()
}

func (s *Store[T]) totalPagesLocked() int {
	size := int64(s.size)
	n := int((s.total + size - 1) / size)
	return max(n, 1)
}

func (s *Store[T]) IsFirstPage() bool {
	return s.Page() == 1
}

func (s *Store[T]) IsLastPage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page >= s.totalPagesLocked()
}

// NextQuery returns the query for the following page, or false on the last
// page.
func (s *Store[T]) NextQuery() (Query, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.page >= s.totalPagesLocked() {
		return Query{}, false
	}
	return s.query.WithPage(s.page + 1), true
}

// PrevQuery returns the query for the preceding page, or false on page 1.
func (s *Store[T]) PrevQuery() (Query, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.page <= 1 {
		return Query{}, false
	}
	return s.query.WithPage(s.page - 1), true
}

// PageQuery returns the query for page n if n is within 1..TotalPages.
func (s *Store[T]) PageQuery(n int) (Query, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 1 || n > s.totalPagesLocked() {
		return Query{}, false
	}
	return s.query.WithPage(n), true
}

// SizeQuery returns the query for a new page size, starting again at page 1.
func (s *Store[T]) SizeQuery(size int) Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.query.WithPage(1)
	if size >= 1 {
		q.Size = size
	}
	return q
}

func (s *Store[T]) indexLocked(id int64) int {
	return slices.IndexFunc(s.items, func(it T) bool { return it.EntityID() == id })
}
