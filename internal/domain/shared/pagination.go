package shared

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultPerPage is the page size used when per_page is absent or invalid
	DefaultPerPage = 10
	// MaxPerPage bounds per_page for every listing
	MaxPerPage = 100
	// MaxPage keeps (page-1)*per_page within int for every allowed page size
	MaxPage = math.MaxInt / MaxPerPage
)

// PageRequest is a resolved page/per_page pair
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest normalizes page and perPage so the offset is never negative
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// ParsePageRequest parses raw query values, falling back to defPerPage
func ParsePageRequest(rawPage, rawPerPage string, defPerPage int) PageRequest {
	return NewPageRequest(ParsePage(rawPage), ParsePerPage(rawPerPage, defPerPage))
}

// Offset returns the number of rows to skip. It is never negative, even for
// a PageRequest built without NewPageRequest.
func (r PageRequest) Offset() int {
	page, perPage := r.Page, r.PerPage
	if page < 1 || perPage < 1 {
		return 0
	}
	if page > math.MaxInt/perPage {
		return math.MaxInt - math.MaxInt%perPage
	}
	return (page - 1) * perPage
}

// Limit returns the number of rows to fetch
func (r PageRequest) Limit() int {
	return r.PerPage
}

// ParsePage returns the page number; non-numeric or < 1 resolves to 1
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePerPage returns the page size; non-numeric or < 1 resolves to def
func ParsePerPage(raw string, def int) int {
	if def < 1 {
		def = DefaultPerPage
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	if n > MaxPerPage {
		return MaxPerPage
	}
	return n
}
