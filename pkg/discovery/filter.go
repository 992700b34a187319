package discovery

import (
	"sort"
	"strings"
	"time"

	"github.com/yair/events-widget/pkg/domain"
)

// Eligible reports whether an event may be displayed at all.
func Eligible(e domain.Event) bool {
	if strings.TrimSpace(e.Title) == "" {
		return false
	}
	if !strings.HasPrefix(e.SourceURL, "http") {
		return false
	}
	return !IsGenericPage(e.SourceURL, e.Title)
}

// Apply returns the events passing both filters, in their original order.
func Apply(n *Normalizer, events []domain.Event, category domain.CategoryFilter, price domain.PriceFilter) []domain.Event {
	filtered := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if category != domain.CategoryAll && !category.Matches(n.DisplayCategory(e)) {
			continue
		}
		if !price.Matches(e.IsFree) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// SortNewestFirst orders events by created_at descending. Ties keep their
// input order; events without a usable timestamp go last.
func SortNewestFirst(n *Normalizer, events []domain.Event) {
	type keyed struct {
		at    time.Time
		event domain.Event
	}

	rows := make([]keyed, len(events))
	for i, e := range events {
		rows[i] = keyed{at: n.CreatedAt(e), event: e}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].at.After(rows[j].at)
	})
	for i := range rows {
		events[i] = rows[i].event
	}
}
