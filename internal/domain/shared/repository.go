package shared

import "encoding/json"

// Page is one page of a filtered listing together with the total number of
// rows that matched the filter.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// NewPage creates a page result for the given request
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Page:    req.Page,
		PerPage: req.PerPage,
	}
}

// PageCount returns ceil(total / per_page)
func (p Page[T]) PageCount() int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := int(p.Total) / p.PerPage
	if int(p.Total)%p.PerPage > 0 {
		pages++
	}
	return pages
}

// MarshalJSON adds the derived page_count to the encoded page
func (p Page[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items     []T   `json:"items"`
		Total     int64 `json:"total"`
		Page      int   `json:"page"`
		PerPage   int   `json:"per_page"`
		PageCount int   `json:"page_count"`
	}{p.Items, p.Total, p.Page, p.PerPage, p.PageCount()})
}

// MapPage converts the items of a page, keeping its counters
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, PerPage: p.PerPage}
}
