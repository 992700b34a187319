package presentation

import (
	"strconv"

	"github.com/yair/events-widget/pkg/discovery"
	"github.com/yair/events-widget/pkg/domain"
)

const (
	LoadingLabel   = "Loading events..."
	NoMatchMessage = "No events found matching your filters"
	LoadFailed     = "Could not load events from server"

	// UnknownSource is shown in the detail view when source_name is empty.
	UnknownSource = "Unknown"
	// FallbackLink is the detail link target when source_url is empty.
	FallbackLink = "#"
)

// Defaults carries the display fallbacks and map settings.
type Defaults struct {
	Location  string
	Center    domain.Coordinates
	Zoom      int
	FocusZoom int
}

// DefaultDefaults centres on London, matching the stock widget.
func DefaultDefaults() Defaults {
	return Defaults{
		Location:  "London",
		Center:    domain.Coordinates{Latitude: 51.5074, Longitude: -0.1278},
		Zoom:      13,
		FocusZoom: 15,
	}
}

type View struct {
	Loaded     bool   `json:"loaded"`
	Failed     bool   `json:"failed"`
	CountLabel string `json:"count_label"`
	// Message replaces the card list when set.
	Message string `json:"message,omitempty"`

	CategoryOptions []Option `json:"category_options"`
	PriceOptions    []Option `json:"price_options"`

	Cards    []Card   `json:"cards"`
	Markers  []Marker `json:"markers"`
	Viewport Viewport `json:"viewport"`
	Detail   *Detail  `json:"detail,omitempty"`
}

// Option is one filter button.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type Card struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Location   string `json:"location"`
	Category   string `json:"category"`
	TimeAgo    string `json:"time_ago"`
	Free       bool   `json:"free"`
	PriceBadge string `json:"price_badge"`
	Unverified bool   `json:"unverified"`
	Selected   bool   `json:"selected"`
}

type Marker struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Title     string  `json:"title"`
	Date      string  `json:"date"`
	Location  string  `json:"location"`
	Category  string  `json:"category"`
}

// Bounds is a south-west/north-east box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Viewport tells the map where to look. When Bounds is set the map fits
// it; otherwise it centres on Center at Zoom.
type Viewport struct {
	Center domain.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
	Bounds *Bounds            `json:"bounds,omitempty"`
}

type Detail struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	TimeAgo     string `json:"time_ago"`
	Free        bool   `json:"free"`
	StatusBadge string `json:"status_badge"`
	Link        string `json:"link"`
}

// CountLabel formats the unfiltered total.
func CountLabel(n int) string {
	if n == 1 {
		return "1 event found"
	}
	return strconv.Itoa(n) + " events found"
}

// Project derives everything the page shows from the store.
func Project(store *discovery.Store, defaults Defaults) View {
	n := store.Normalizer()
	view := View{
		Loaded:          store.Loaded(),
		CountLabel:      LoadingLabel,
		CategoryOptions: categoryOptions(store.CategoryFilter()),
		PriceOptions:    priceOptions(store.PriceFilter()),
		Cards:           []Card{},
		Markers:         []Marker{},
		Viewport:        Viewport{Center: defaults.Center, Zoom: defaults.Zoom},
	}

	if !store.Loaded() {
		return view
	}
	if store.Err() != nil {
		view.Failed = true
		view.Message = LoadFailed
		return view
	}

	view.CountLabel = CountLabel(store.Total())

	selected, hasSelection := store.Selected()
	for _, e := range store.Filtered() {
		view.Cards = append(view.Cards, card(n, e, defaults, hasSelection && selected.ID == e.ID))
		view.Markers = append(view.Markers, marker(n, e, defaults))
	}
	if len(view.Cards) == 0 {
		view.Message = NoMatchMessage
	}

	if hasSelection {
		d := detail(n, selected, defaults)
		view.Detail = &d
		view.Viewport = Viewport{Center: selected.Coordinates(defaults.Center), Zoom: defaults.FocusZoom}
	} else if len(view.Markers) > 0 {
		view.Viewport.Bounds = fitBounds(view.Markers)
	}

	return view
}

func categoryOptions(active domain.CategoryFilter) []Option {
	opts := make([]Option, 0, len(domain.CategoryControls))
	for _, f := range domain.CategoryControls {
		label := string(f)
		if f == domain.CategoryAll {
			label = "All"
		}
		opts = append(opts, Option{Value: string(f), Label: label, Active: f == active})
	}
	return opts
}

func priceOptions(active domain.PriceFilter) []Option {
	labels := map[domain.PriceFilter]string{
		domain.PriceAll:  "All",
		domain.PriceFree: "Free",
		domain.PricePaid: "Paid",
	}
	opts := make([]Option, 0, len(domain.PriceControls))
	for _, f := range domain.PriceControls {
		opts = append(opts, Option{Value: string(f), Label: labels[f], Active: f == active})
	}
	return opts
}

func location(e domain.Event, defaults Defaults) string {
	if loc := PlainText(e.Location); loc != "" {
		return loc
	}
	return defaults.Location
}

func card(n *discovery.Normalizer, e domain.Event, defaults Defaults, selected bool) Card {
	badge := "Paid"
	if e.IsFree {
		badge = "Free"
	}
	return Card{
		ID:         e.ID.String(),
		Title:      PlainText(e.Title),
		Date:       n.DisplayDate(e),
		Location:   location(e, defaults),
		Category:   string(n.DisplayCategory(e)),
		TimeAgo:    n.TimeAgo(e.CreatedAt),
		Free:       bool(e.IsFree),
		PriceBadge: badge,
		Unverified: !bool(e.IsValid),
		Selected:   selected,
	}
}

func marker(n *discovery.Normalizer, e domain.Event, defaults Defaults) Marker {
	pos := e.Coordinates(defaults.Center)
	return Marker{
		ID:        e.ID.String(),
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Title:     PlainText(e.Title),
		Date:      n.DisplayDate(e),
		Location:  location(e, defaults),
		Category:  string(n.DisplayCategory(e)),
	}
}

func detail(n *discovery.Normalizer, e domain.Event, defaults Defaults) Detail {
	link := e.SourceURL
	if link == "" {
		link = FallbackLink
	}
	status := "Paid"
	if e.IsFree {
		status = "✓ Free"
	}
	return Detail{
		ID:          e.ID.String(),
		Title:       PlainText(e.Title),
		Date:        n.DisplayDate(e),
		Location:    location(e, defaults),
		Category:    string(n.DisplayCategory(e)),
		Source:      sourceName(e),
		TimeAgo:     n.TimeAgo(e.CreatedAt),
		Free:        bool(e.IsFree),
		StatusBadge: status,
		Link:        link,
	}
}

// fitBounds boxes the markers and pads the box by 10% of its span on
// every side.
func fitBounds(markers []Marker) *Bounds {
	b := Bounds{
		South: markers[0].Latitude,
		North: markers[0].Latitude,
		West:  markers[0].Longitude,
		East:  markers[0].Longitude,
	}
	for _, m := range markers[1:] {
		b.South = min(b.South, m.Latitude)
		b.North = max(b.North, m.Latitude)
		b.West = min(b.West, m.Longitude)
		b.East = max(b.East, m.Longitude)
	}

	latPad := (b.North - b.South) * 0.1
	lngPad := (b.East - b.West) * 0.1
	b.South -= latPad
	b.North += latPad
	b.West -= lngPad
	b.East += lngPad
	return &b
}
