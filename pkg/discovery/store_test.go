package discovery

import (
	"errors"
	"testing"

	"github.com/yair/events-widget/pkg/domain"
)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "1", Title: "Kubernetes Workshop", SourceURL: "https://example.com/e/1", CreatedAt: "2023-01-01", IsFree: true},
		{ID: "2", Title: "Go Meetup", SourceURL: "https://example.com/e/2", CreatedAt: "2024-06-01"},
		{ID: "3", Title: "", SourceURL: "https://example.com/e/3", CreatedAt: "2024-06-05"},
		{ID: "4", Title: "Browse all events", SourceURL: "https://example.com/e/4"},
		{ID: "5", Title: "AI Hackathon", SourceURL: "https://example.com/e/5", IsFree: true},
	}
}

func TestStore_Load(t *testing.T) {
	s := NewStore(newTestNormalizer())

	if s.Loaded() {
		t.Fatal("new store should not be loaded")
	}

	dropped := s.Load(sampleEvents())
	if dropped != 2 {
		t.Errorf("expected 2 dropped events, got %d", dropped)
	}
	if !s.Loaded() || s.Err() != nil {
		t.Errorf("expected loaded store without error, got loaded=%v err=%v", s.Loaded(), s.Err())
	}
	if s.Total() != 3 {
		t.Errorf("expected 3 events, got %d", s.Total())
	}
	if !sameIDs(s.Events(), "2", "1", "5") {
		t.Errorf("expected [2 1 5], got %v", ids(s.Events()))
	}
	if !sameIDs(s.Filtered(), "2", "1", "5") {
		t.Errorf("expected filtered list to equal full list, got %v", ids(s.Filtered()))
	}
	if s.CategoryFilter() != domain.CategoryAll || s.PriceFilter() != domain.PriceAll {
		t.Errorf("expected filters reset to all, got %s/%s", s.CategoryFilter(), s.PriceFilter())
	}
}

func TestStore_LoadResetsState(t *testing.T) {
	s := NewStore(newTestNormalizer())
	s.Load(sampleEvents())
	s.SetCategoryFilter(domain.CategoryFilter(domain.CategoryWorkshop))
	s.SetPriceFilter(domain.PriceFree)
	s.Select("1")

	s.Load(sampleEvents())

	if s.CategoryFilter() != domain.CategoryAll || s.PriceFilter() != domain.PriceAll {
		t.Error("expected filters to be reset")
	}
	if _, ok := s.Selected(); ok {
		t.Error("expected selection to be cleared")
	}
	if len(s.Filtered()) != s.Total() {
		t.Errorf("expected filtered list to be the full list, got %d of %d", len(s.Filtered()), s.Total())
	}
}

func TestStore_Filters(t *testing.T) {
	s := NewStore(newTestNormalizer())
	s.Load(sampleEvents())

	t.Run("category", func(t *testing.T) {
		s.SetCategoryFilter(domain.CategoryFilter(domain.CategoryHackathon))
		if !sameIDs(s.Filtered(), "5") {
			t.Errorf("expected [5], got %v", ids(s.Filtered()))
		}
		if s.Total() != 3 {
			t.Errorf("filtering must not change the total, got %d", s.Total())
		}
	})

	t.Run("price combines with category", func(t *testing.T) {
		s.SetCategoryFilter(domain.CategoryAll)
		s.SetPriceFilter(domain.PriceFree)
		if !sameIDs(s.Filtered(), "1", "5") {
			t.Errorf("expected [1 5], got %v", ids(s.Filtered()))
		}
		s.SetPriceFilter(domain.PricePaid)
		if !sameIDs(s.Filtered(), "2") {
			t.Errorf("expected [2], got %v", ids(s.Filtered()))
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s.SetPriceFilter(domain.PriceAll)
		s.SetCategoryFilter(domain.CategoryAll)
		once := ids(s.Filtered())
		s.SetCategoryFilter(domain.CategoryAll)
		twice := ids(s.Filtered())
		if len(once) != len(twice) {
			t.Fatalf("expected same length, got %v and %v", once, twice)
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("expected %v, got %v", once, twice)
			}
		}
	})

	t.Run("filtered is a subset of the full list", func(t *testing.T) {
		full := map[domain.EventID]bool{}
		for _, e := range s.Events() {
			full[e.ID] = true
		}
		for _, c := range domain.CategoryControls {
			for _, p := range domain.PriceControls {
				s.SetCategoryFilter(c)
				s.SetPriceFilter(p)
				for _, e := range s.Filtered() {
					if !full[e.ID] {
						t.Errorf("%s/%s produced foreign event %s", c, p, e.ID)
					}
				}
			}
		}
	})
}

func TestStore_Selection(t *testing.T) {
	s := NewStore(newTestNormalizer())
	s.Load(sampleEvents())

	s.Select("2")
	got, ok := s.Selected()
	if !ok || got.ID != "2" {
		t.Fatalf("expected event 2 selected, got %v %v", got.ID, ok)
	}

	t.Run("selection replaces previous", func(t *testing.T) {
		s.Select("5")
		got, ok := s.Selected()
		if !ok || got.ID != "5" {
			t.Errorf("expected event 5 selected, got %v %v", got.ID, ok)
		}
	})

	t.Run("selection ignores filters", func(t *testing.T) {
		s.SetCategoryFilter(domain.CategoryFilter(domain.CategoryWorkshop))
		s.Select("2")
		if _, ok := s.Selected(); !ok {
			t.Error("expected filtered-out event to remain selectable")
		}
	})

	t.Run("unknown id clears selection", func(t *testing.T) {
		s.Select("404")
		if _, ok := s.Selected(); ok {
			t.Error("expected no selection")
		}
	})

	t.Run("empty id never matches", func(t *testing.T) {
		withBlank := NewStore(newTestNormalizer())
		withBlank.Load([]domain.Event{{Title: "Rust Meetup", SourceURL: "https://example.com/e/blank"}})
		withBlank.Select("")
		if _, ok := withBlank.Selected(); ok {
			t.Error("expected empty id to clear selection")
		}
		if _, ok := withBlank.Lookup(""); ok {
			t.Error("expected empty id lookup to miss")
		}
	})

	t.Run("dropped event is not selectable", func(t *testing.T) {
		s.Select("4")
		if _, ok := s.Selected(); ok {
			t.Error("expected ineligible event to be unselectable")
		}
	})

	t.Run("deselect", func(t *testing.T) {
		s.Select("1")
		s.Deselect()
		if _, ok := s.Selected(); ok {
			t.Error("expected no selection after Deselect")
		}
	})
}

func TestStore_Fail(t *testing.T) {
	s := NewStore(newTestNormalizer())
	s.Load(sampleEvents())
	s.Select("1")

	failure := errors.New("boom")
	s.Fail(failure)

	if !errors.Is(s.Err(), failure) {
		t.Errorf("expected stored error, got %v", s.Err())
	}
	if s.Total() != 0 || len(s.Filtered()) != 0 {
		t.Errorf("expected no data after failure, got %d/%d", s.Total(), len(s.Filtered()))
	}
	if _, ok := s.Selected(); ok {
		t.Error("expected no selection after failure")
	}
}

func TestStore_Lookup(t *testing.T) {
	s := NewStore(newTestNormalizer())
	s.Load(sampleEvents())

	if _, ok := s.Lookup("5"); !ok {
		t.Error("expected to find event 5")
	}
	if _, ok := s.Lookup("3"); ok {
		t.Error("did not expect to find dropped event 3")
	}
	if _, ok := s.Selected(); ok {
		t.Error("Lookup must not select")
	}
}
