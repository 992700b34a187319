package discovery

import (
	"github.com/yair/events-widget/pkg/domain"
)

// Store owns the event list of one page load and the UI state derived from
// it. The filtered list is always recomputed from (events, category, price).
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	normalizer *Normalizer

	loaded   bool
	loadErr  error
	events   []domain.Event
	filtered []domain.Event

	category domain.CategoryFilter
	price    domain.PriceFilter
	selected *domain.Event
}

func NewStore(normalizer *Normalizer) *Store {
	return &Store{
		normalizer: normalizer,
		category:   domain.CategoryAll,
		price:      domain.PriceAll,
	}
}

// Load ingests a fetched list: ineligible events are dropped, the rest are
// sorted newest first. Filters and selection are reset. It returns how many
// records were dropped.
func (s *Store) Load(raw []domain.Event) int {
	events := make([]domain.Event, 0, len(raw))
	for _, e := range raw {
		if Eligible(e) {
			events = append(events, e)
		}
	}
	SortNewestFirst(s.normalizer, events)

	s.loaded = true
	s.loadErr = nil
	s.events = events
	s.category = domain.CategoryAll
	s.price = domain.PriceAll
	s.selected = nil
	s.recompute()

	return len(raw) - len(events)
}

// Fail records a terminal fetch failure. No partial data is kept.
func (s *Store) Fail(err error) {
	s.loaded = true
	s.loadErr = err
	s.events = nil
	s.filtered = nil
	s.selected = nil
}

func (s *Store) SetCategoryFilter(f domain.CategoryFilter) {
	s.category = f
	s.recompute()
}

func (s *Store) SetPriceFilter(f domain.PriceFilter) {
	s.price = f
	s.recompute()
}

// Select picks the event with the given id from the full list. An unknown
// or empty id clears the selection.
func (s *Store) Select(id domain.EventID) {
	s.selected = nil
	if id == "" {
		return
	}
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			s.selected = &e
			return
		}
	}
}

func (s *Store) Deselect() {
	s.selected = nil
}

func (s *Store) recompute() {
	s.filtered = Apply(s.normalizer, s.events, s.category, s.price)
}

func (s *Store) Normalizer() *Normalizer {
	return s.normalizer
}

// Loaded reports whether a fetch has completed, successfully or not.
func (s *Store) Loaded() bool {
	return s.loaded
}

func (s *Store) Err() error {
	return s.loadErr
}

// Total is the unfiltered event count.
func (s *Store) Total() int {
	return len(s.events)
}

func (s *Store) Events() []domain.Event {
	return append([]domain.Event(nil), s.events...)
}

func (s *Store) Filtered() []domain.Event {
	return append([]domain.Event(nil), s.filtered...)
}

// Selected returns the selected event, if any.
func (s *Store) Selected() (domain.Event, bool) {
	if s.selected == nil {
		return domain.Event{}, false
	}
	return *s.selected, true
}

// Lookup finds an event in the full list without touching the selection.
func (s *Store) Lookup(id domain.EventID) (domain.Event, bool) {
	if id == "" {
		return domain.Event{}, false
	}
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}

func (s *Store) CategoryFilter() domain.CategoryFilter {
	return s.category
}

func (s *Store) PriceFilter() domain.PriceFilter {
	return s.price
}
