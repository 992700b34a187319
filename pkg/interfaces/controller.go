package interfaces

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/yair/events-widget/pkg/discovery"
	"github.com/yair/events-widget/pkg/domain"
	"github.com/yair/events-widget/pkg/presentation"
)

// DismissReason says how the detail view was closed.
type DismissReason string

const (
	DismissClose   DismissReason = "close"
	DismissOverlay DismissReason = "overlay"
	DismissEscape  DismissReason = "escape"
)

func ParseDismissReason(s string) (DismissReason, error) {
	switch r := DismissReason(strings.ToLower(strings.TrimSpace(s))); r {
	case DismissClose, DismissOverlay, DismissEscape:
		return r, nil
	case "":
		return DismissClose, nil
	}
	return "", domain.ValidationError{Field: "reason", Message: "unknown dismiss reason " + s, Err: domain.ErrInvalidRequest}
}

// Controller turns user actions into store updates for one widget
// session. Every action returns the view to re-render.
type Controller struct {
	id       string
	defaults presentation.Defaults
	metrics  *Metrics

	mu      sync.Mutex
	store   *discovery.Store
	fetched bool
}

func NewController(id string, store *discovery.Store, defaults presentation.Defaults, metrics *Metrics) *Controller {
	return &Controller{
		id:       id,
		store:    store,
		defaults: defaults,
		metrics:  metrics,
	}
}

// Load performs the session's single fetch. Later calls return the current
// view without contacting the source again. A failed fetch is recorded in
// the store and also returned.
func (c *Controller) Load(ctx context.Context, source domain.EventSource) (presentation.View, error) {
	c.mu.Lock()
	if c.fetched {
		defer c.mu.Unlock()
		return c.project(), c.store.Err()
	}
	c.fetched = true
	c.mu.Unlock()

	start := time.Now()
	events, err := source.FetchEvents(ctx)
	c.metrics.observeFetch(start, err)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Printf("Session %s: failed to load events: %v", c.id, err)
		c.store.Fail(err)
		return c.project(), err
	}

	dropped := c.store.Load(events)
	c.metrics.observeLoad(len(events)-dropped, dropped)
	if dropped > 0 {
		log.Printf("Session %s: loaded %d events, dropped %d ineligible", c.id, len(events)-dropped, dropped)
	}
	return c.project(), nil
}

func (c *Controller) ChooseCategory(label string) (presentation.View, error) {
	f, err := domain.ParseCategoryFilter(label)
	if err != nil {
		return c.View(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetCategoryFilter(f)
	c.metrics.observeFilter("category", string(f))
	return c.project(), nil
}

func (c *Controller) ChoosePrice(label string) (presentation.View, error) {
	f, err := domain.ParsePriceFilter(label)
	if err != nil {
		return c.View(), err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetPriceFilter(f)
	c.metrics.observeFilter("price", string(f))
	return c.project(), nil
}

// OpenEvent selects an event from the full list, replacing any current
// selection. An unknown id leaves nothing selected.
func (c *Controller) OpenEvent(id domain.EventID) presentation.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Select(id)
	if _, ok := c.store.Selected(); ok {
		c.metrics.observeSelection("opened")
	}
	return c.project()
}

func (c *Controller) Dismiss(reason DismissReason) presentation.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store.Selected(); ok {
		c.metrics.observeSelection("dismissed_" + string(reason))
	}
	c.store.Deselect()
	return c.project()
}

func (c *Controller) View() presentation.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.project()
}

// Calendar exports one event of the full list as iCalendar text.
func (c *Controller) Calendar(id domain.EventID) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.Lookup(id)
	if !ok {
		return "", domain.ErrEventNotFound
	}
	return presentation.ICS(e, c.store.Normalizer(), c.defaults), nil
}

func (c *Controller) project() presentation.View {
	return presentation.Project(c.store, c.defaults)
}
