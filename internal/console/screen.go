package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"bloomadmin/internal/debounce"
	"bloomadmin/internal/listview"
	"bloomadmin/internal/log"
	"bloomadmin/internal/store"
)

// Screen is one list screen of a workspace: a store shared with other screens of the
// same entity plus this screen's own view state and debounced search.
type Screen[T any] struct {
	Name  string
	Store *store.Store[T]

	spec   listview.Spec[T]
	search *debounce.Debouncer

	mu    sync.Mutex
	state listview.State
}

func newScreen[T any](name string, st *store.Store[T], spec listview.Spec[T], pageSize int, delay time.Duration) *Screen[T] {
	return &Screen[T]{
		Name:   name,
		Store:  st,
		spec:   spec,
		search: debounce.New(delay),
		state:  listview.NewState(pageSize),
	}
}

// Open loads the store the first time the screen is shown. A failed load leaves the
// screen empty; the error is returned for the caller to log and show.
func (s *Screen[T]) Open(ctx context.Context) error {
	if s.Store.Loaded() {
		return s.Store.Err()
	}
	return s.Reload(ctx)
}

// Reload replaces the store's collection with a fresh fetch.
func (s *Screen[T]) Reload(ctx context.Context) error {
	_, err := s.Store.Load(ctx)
	if errors.Is(err, store.ErrStale) {
		return nil
	}
	if err != nil {
		log.Error(nil, "console.load.fail", err, map[string]any{"screen": s.Name})
	}
	return err
}

// View derives the current page and stores the clamped page number back.
func (s *Screen[T]) View() listview.Page[T] {
	items := s.Store.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	p := listview.Derive(items, s.spec, s.state.Query())
	s.state.Page = p.Page
	return p
}

// Rows is every row the current filter, sort and search select, across all pages.
func (s *Screen[T]) Rows() []T {
	items := s.Store.Snapshot()
	s.mu.Lock()
	q := s.state.Query()
	s.mu.Unlock()
	return listview.Rows(items, s.spec, q)
}

// Categories lists the filter values present in the store.
func (s *Screen[T]) Categories() []string {
	return listview.Categories(s.Store.Snapshot(), s.spec)
}

func (s *Screen[T]) State() listview.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Screen[T]) SetFilter(v string) { s.with(func(st *listview.State) { st.SetFilter(v) }) }
func (s *Screen[T]) SetSort(v string)   { s.with(func(st *listview.State) { st.SetSort(v) }) }
func (s *Screen[T]) SetPage(n int)      { s.with(func(st *listview.State) { st.SetPage(n) }) }
func (s *Screen[T]) SetPageSize(n int)  { s.with(func(st *listview.State) { st.SetPageSize(n) }) }

// SetSearch applies term immediately.
func (s *Screen[T]) SetSearch(term string) { s.with(func(st *listview.State) { st.SetSearch(term) }) }

// Search applies term once typing has paused. A call replaced by a newer one returns
// debounce.ErrSuperseded without touching the state.
func (s *Screen[T]) Search(ctx context.Context, term string) error {
	return s.search.Do(ctx, func() { s.SetSearch(term) })
}

func (s *Screen[T]) with(fn func(*listview.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Screen[T]) close() { s.search.Stop() }
