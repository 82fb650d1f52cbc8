// Package collection keeps one page of server-held entities in memory and
// keeps it consistent while the page is mutated locally.
//
// A Store holds the items of the current page together with the server's
// total count and the Query that produced the page. Mutations are keyed by
// entity id and never touch the network; callers decide when to fetch.
//
// Invariants maintained by every Store operation:
//
//   - no two items share an id;
//   - len(items) <= size;
//   - total changes by exactly +1 for an insertion, -1 for a removal and 0
//     for an in-place update;
//   - total >= 0, page >= 1, size >= 1.
//
// The Store performs no request sequencing. Loader wraps a Store and drops
// responses from superseded fetches before they reach ReplacePage.
package collection
