package collection

import (
	"maps"
	"net/url"
	"strconv"
)

// DefaultPageSize is used when a Store is built with a size below 1.
const DefaultPageSize = 20

// Query is the set of parameters that produced a Page. It is kept next to the
// page so that refreshes and page moves know what to re-request.
type Query struct {
	Page    int
	Size    int
	Sort    string
	Filters map[string]string
}

// NewQuery returns a first-page query of the given size.
func NewQuery(size int) Query {
	if size < 1 {
		size = DefaultPageSize
	}
	return Query{Page: 1, Size: size}
}

// WithPage returns a copy of q pointing at page n.
func (q Query) WithPage(n int) Query {
	c := q.clone()
	c.Page = max(n, 1)
	return c
}

// WithFilter returns a copy of q with key set to value. An empty value
// removes the filter. Changing filters moves back to the first page.
func (q Query) WithFilter(key, value string) Query {
	c := q.clone()
	if c.Filters == nil {
		c.Filters = make(map[string]string)
	}
	if value == "" {
		delete(c.Filters, key)
	} else {
		c.Filters[key] = value
	}
	c.Page = 1
	return c
}

// Values renders q as URL query parameters using the backend's names.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k, f := range q.Filters {
		v.Set(k, f)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	v.Set("page", strconv.Itoa(max(q.Page, 1)))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

func (q Query) clone() Query {
	c := q
	c.Filters = maps.Clone(q.Filters)
	return c
}
