package listview

import "strings"

// State is the filter, sort, search and page a screen currently shows.
//
// Changing the filter, the sort or the search term returns to page 1. Changing the page
// size keeps the current page; Clamp pulls it back into range once the row count is known.
type State struct {
	Filter   string
	Sort     string
	Search   string
	Page     int
	PageSize int
}

// NewState starts a screen on page 1 with no filter, sort or search.
// A page size below 1 falls back to DefaultPageSize.
func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return State{Filter: All, Sort: SortNone, Page: 1, PageSize: pageSize}
}

// SetFilter selects a filter value; All and empty clear it. A change resets the page.
func (s *State) SetFilter(v string) {
	v = strings.TrimSpace(v)
	if IsAll(v) {
		v = All
	}
	if v != s.Filter {
		s.Filter = v
		s.Page = 1
	}
}

// SetSort selects a sort such as "stock-desc". A change resets the page.
func (s *State) SetSort(v string) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		v = SortNone
	}
	if v != s.Sort {
		s.Sort = v
		s.Page = 1
	}
}

// SetSearch sets the search term. A change resets the page.
func (s *State) SetSearch(v string) {
	v = strings.TrimSpace(v)
	if v != s.Search {
		s.Search = v
		s.Page = 1
	}
}

func (s *State) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
}

// SetPageSize keeps the current page; the next derive clamps it.
func (s *State) SetPageSize(n int) {
	if n < 1 {
		return
	}
	s.PageSize = n
}

// Clamp keeps Page within the pages available for total rows.
func (s *State) Clamp(total int) {
	s.Page = ClampPage(s.Page, total, s.PageSize)
}

func (s State) Query() Query {
	return Query{Filter: s.Filter, Sort: s.Sort, Search: s.Search, Page: s.Page, PageSize: s.PageSize}
}
