package client

import (
	"context"
	"net/url"

	"github.com/study-upc/studyclient/internal/client/collection"
)

// pageData accepts every paginated shape the backend emits: {list, size} is
// the common one, the review queue may use {materials, page_size} and search
// uses {results, page_size}.
type pageData[T any] struct {
	List      []T   `json:"list"`
	Materials []T   `json:"materials"`
	Results   []T   `json:"results"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Size      int   `json:"size"`
	PageSize  int   `json:"page_size"`
}

func (p pageData[T]) normalize(q collection.Query) collection.Page[T] {
	items := p.List
	switch {
	case len(p.Materials) > 0:
		items = p.Materials
	case len(p.Results) > 0:
		items = p.Results
	}
	if items == nil {
		items = []T{}
	}

	size := p.PageSize
	if size == 0 {
		size = p.Size
	}
	if size == 0 {
		size = q.Size
	}
	page := p.Page
	if page == 0 {
		page = q.Page
	}

	return collection.Page[T]{Items: items, Total: p.Total, Page: page, Size: size}
}

func getPage[T any](ctx context.Context, c *HTTPClient, path string, q collection.Query, params url.Values) (collection.Page[T], error) {
	var data pageData[T]
	if err := c.get(ctx, path, params, &data); err != nil {
		return collection.Page[T]{}, err
	}
	return data.normalize(q), nil
}
