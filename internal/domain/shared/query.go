package shared

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Sort directions
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortParam is a parsed "column.dir" sort value. Column is the API-facing
// name; repositories map it to SQL through a whitelist.
type SortParam struct {
	Column    string
	Direction string
}

// ParseSort splits raw on the first dot. An empty raw value yields the
// defaults; a missing or unknown direction yields desc.
func ParseSort(raw, defaultColumn, defaultDir string) SortParam {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortParam{Column: defaultColumn, Direction: normalizeDirection(defaultDir)}
	}
	column, dir, _ := strings.Cut(raw, ".")
	if column == "" {
		column = defaultColumn
	}
	return SortParam{Column: column, Direction: normalizeDirection(dir)}
}

// IsAsc reports whether the sort is ascending
func (s SortParam) IsAsc() bool {
	return s.Direction == SortAsc
}

// String renders the sort back to "column.dir"
func (s SortParam) String() string {
	return s.Column + "." + s.Direction
}

func normalizeDirection(dir string) string {
	if strings.EqualFold(dir, SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// SplitList splits a dot-separated list, dropping empty parts
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseIDList parses a dot-separated list of numeric ids, skipping invalid values
func ParseIDList(raw string) []int64 {
	parts := SplitList(raw)
	if len(parts) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// PriceRange is an optional inclusive price bound pair
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// IsEmpty reports whether neither bound is set
func (r PriceRange) IsEmpty() bool {
	return r.Min == nil && r.Max == nil
}

// ParsePriceRange parses "min-max". Either side may be empty or invalid,
// in which case that bound is ignored.
func ParsePriceRange(raw string) PriceRange {
	var r PriceRange
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r
	}
	minRaw, maxRaw, _ := strings.Cut(raw, "-")
	if d, err := decimal.NewFromString(strings.TrimSpace(minRaw)); err == nil {
		r.Min = &d
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(maxRaw)); err == nil {
		r.Max = &d
	}
	return r
}
