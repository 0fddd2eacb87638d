// Package listview derives what a list screen shows from a collection:
// filter, then sort, then search, then paginate.
package listview

import (
	"slices"
	"strings"
)

// All is the identity filter value.
const All = "all"

// SortNone keeps insertion order.
const SortNone = "none"

// IsAll reports whether v selects every record ("All", "all" or empty).
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Spec describes how one entity type is filtered, sorted and searched.
type Spec[T any] struct {
	// Filter returns the categorical value a record is filtered on.
	Filter func(T) string
	// Sorts maps a sort key ("stock", "price") to an ascending numeric comparison.
	Sorts map[string]func(a, b T) int
	// Search returns the text fields a search term is matched against.
	Search func(T) []string
}

// Query is one request for a page.
type Query struct {
	Filter   string
	Sort     string
	Search   string
	Page     int
	PageSize int
}

// Page is one slice of the derived view.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalPages int
	Total      int
}

// Empty reports a result with no rows at all. HasPrev, HasNext, Prev and Next drive
// the pager links.
func (p Page[T]) Empty() bool   { return p.Total == 0 }
func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }
func (p Page[T]) Prev() int     { return p.Page - 1 }
func (p Page[T]) Next() int     { return p.Page + 1 }

// From is the 1-based position of the first item on the page, 0 when empty.
func (p Page[T]) From() int {
	if p.Empty() {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

// To is the 1-based position of the last item on the page, 0 when empty.
func (p Page[T]) To() int {
	if p.Empty() {
		return 0
	}
	return p.From() + len(p.Items) - 1
}

// ParseSort splits "stock-desc" into ("stock", true). "none" and "" yield no key.
// A key without a direction sorts ascending.
func ParseSort(s string) (key string, desc bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == SortNone {
		return "", false
	}
	if k, ok := strings.CutSuffix(s, "-desc"); ok {
		return k, true
	}
	if k, ok := strings.CutSuffix(s, "-asc"); ok {
		return k, false
	}
	return s, false
}

// TotalPages is ceil(total/size), never below 1.
func TotalPages(total, size int) int {
	if size < 1 {
		size = 1
	}
	n := (total + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// ClampPage keeps page inside [1, TotalPages(total, size)].
func ClampPage(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(total, size); page > last {
		return last
	}
	return page
}

// Rows applies filter, sort and search but not pagination.
// The input slice is never modified.
func Rows[T any](items []T, spec Spec[T], q Query) []T {
	out := filter(items, spec, q.Filter)
	sortRows(out, spec, q.Sort)
	return search(out, spec, q.Search)
}

// Derive returns the requested page of Rows. The page is clamped into range.
func Derive[T any](items []T, spec Spec[T], q Query) Page[T] {
	rows := Rows(items, spec, q)
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	page := ClampPage(q.Page, len(rows), size)
	start := (page - 1) * size
	end := min(start+size, len(rows))
	return Page[T]{
		Items:      rows[start:end:end],
		Page:       page,
		PageSize:   size,
		TotalPages: TotalPages(len(rows), size),
		Total:      len(rows),
	}
}

// DefaultPageSize is used when a query carries no page size.
const DefaultPageSize = 10

func filter[T any](items []T, spec Spec[T], value string) []T {
	out := make([]T, 0, len(items))
	if IsAll(value) || spec.Filter == nil {
		return append(out, items...)
	}
	value = strings.TrimSpace(value)
	for _, it := range items {
		if strings.EqualFold(spec.Filter(it), value) {
			out = append(out, it)
		}
	}
	return out
}

func sortRows[T any](rows []T, spec Spec[T], sortValue string) {
	key, desc := ParseSort(sortValue)
	if key == "" {
		return
	}
	cmp, ok := spec.Sorts[key]
	if !ok {
		return
	}
	if desc {
		slices.SortStableFunc(rows, func(a, b T) int { return cmp(b, a) })
		return
	}
	slices.SortStableFunc(rows, cmp)
}

func search[T any](rows []T, spec Spec[T], term string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || spec.Search == nil {
		return rows
	}
	out := rows[:0]
	for _, it := range rows {
		for _, f := range spec.Search(it) {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Categories lists the distinct non-empty filter values of items in first-seen order.
func Categories[T any](items []T, spec Spec[T]) []string {
	if spec.Filter == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		v := spec.Filter(it)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
