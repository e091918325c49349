package articles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPage and DefaultLimit apply when a caller leaves them unset.
	DefaultPage  = 1
	DefaultLimit = 10

	// MaxLimit caps the page size of a single list read.
	MaxLimit = 100
)

// Filter dimension names accepted by ParseFilters.
const (
	FilterAuthorID        = "authorId"
	FilterPublishedAfter  = "publishedAfter"
	FilterPublishedBefore = "publishedBefore"
)

// Filters is the closed set of list filter dimensions. A nil field means the
// dimension is not applied.
//
//   - AuthorID: equality match on the article author.
//   - PublishedAfter: inclusive lower bound on PublishedAt.
//   - PublishedBefore: inclusive upper bound on PublishedAt.
type Filters struct {
	AuthorID        *int64
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
}

// ByAuthor is a convenience constructor for an author-scoped filter.
func ByAuthor(id int64) Filters {
	return Filters{AuthorID: &id}
}

// Normalize returns a copy with canonical timestamps.
func (f Filters) Normalize() Filters {
	if f.PublishedAfter != nil {
		t := NormalizeTime(*f.PublishedAfter)
		f.PublishedAfter = &t
	}
	if f.PublishedBefore != nil {
		t := NormalizeTime(*f.PublishedBefore)
		f.PublishedBefore = &t
	}
	return f
}

// Validate rejects an empty publication window.
func (f Filters) Validate() error {
	if f.PublishedAfter != nil && f.PublishedBefore != nil && f.PublishedAfter.After(*f.PublishedBefore) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidInput, FilterPublishedAfter, FilterPublishedBefore)
	}
	return nil
}

// ParseFilters builds Filters from loosely typed query values. Empty values
// leave a dimension unset; unknown dimensions are rejected.
func ParseFilters(values map[string]string) (Filters, error) {
	var f Filters

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := strings.TrimSpace(values[name])
		if raw == "" {
			continue
		}
		switch name {
		case FilterAuthorID:
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return Filters{}, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidInput, name)
			}
			f.AuthorID = &id
		case FilterPublishedAfter:
			t, err := parseTime(raw)
			if err != nil {
				return Filters{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
			}
			f.PublishedAfter = &t
		case FilterPublishedBefore:
			t, err := parseTime(raw)
			if err != nil {
				return Filters{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
			}
			f.PublishedBefore = &t
		default:
			return Filters{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, name)
		}
	}

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// ListQuery is a validated page request.
type ListQuery struct {
	Page    int
	Limit   int
	Filters Filters
}

// NewListQuery applies defaults to zero page and limit, then validates.
func NewListQuery(page, limit int, filters Filters) (ListQuery, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	q := ListQuery{Page: page, Limit: limit, Filters: filters.Normalize()}
	if err := q.Validate(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

// Validate checks paging bounds and the filter window.
func (q ListQuery) Validate() error {
	if q.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1", ErrInvalidInput)
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}
	return q.Filters.Validate()
}

// Offset is the number of rows skipped before the page starts.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
