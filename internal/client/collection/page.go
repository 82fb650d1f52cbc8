package collection

// Entity is anything with a stable unique identifier. The store never looks
// at any other field.
type Entity interface {
	EntityID() int64
}

// Page is one window of a server-held collection.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

// Removal is the undo token returned by Store.Detach.
type Removal[T Entity] struct {
	Index  int
	Entity T
}

// Snapshot is a full copy of a Store's state, taken by Store.Snapshot.
type Snapshot[T Entity] struct {
	items []T
	total int64
	page  int
	size  int
	query Query
}
