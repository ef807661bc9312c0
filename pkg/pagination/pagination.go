// Package pagination implements page based list pagination with a one-ahead
// lookahead: callers fetch one record more than the page size so the
// presence of the extra record indicates a following page without a second
// query.
package pagination

const (
	// DefaultPageSize used when the caller does not specify one
	DefaultPageSize = 50
	// MaxPageSize hard cap, larger requests are silently clamped
	MaxPageSize = 1000
)

// Params normalizes raw page and page size values. Zero or negative values
// fall back to the defaults and oversized page sizes are capped, never
// rejected.
func Params(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// SkipTake computes the fetch window for the normalized params. Take is one
// larger than the page size, the lookahead record.
func SkipTake(page, pageSize int) (skip, take int) {
	page, pageSize = Params(page, pageSize)
	return (page - 1) * pageSize, pageSize + 1
}

// Result is one page of items plus navigation metadata.
type Result[T any] struct {
	Items        []T  `json:"items"`
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
}

// Paginate shapes a fetched item slice into a Result. It trusts the caller
// to have fetched items with the take from SkipTake: a slice longer than
// pageSize means a next page exists, and the lookahead item is dropped from
// the output.
func Paginate[T any](items []T, page, pageSize int) Result[T] {
	hasNext := len(items) > pageSize
	hasPrevious := page > 1

	if hasNext {
		items = items[:pageSize]
	}

	result := Result[T]{
		Items:       items,
		Page:        page,
		PageSize:    pageSize,
		HasNext:     hasNext,
		HasPrevious: hasPrevious,
	}
	if hasNext {
		next := page + 1
		result.NextPage = &next
	}
	if hasPrevious {
		previous := page - 1
		result.PreviousPage = &previous
	}
	return result
}
