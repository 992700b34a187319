package presentation

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/yair/events-widget/pkg/discovery"
	"github.com/yair/events-widget/pkg/domain"
)

const icsProductID = "-//events-widget//Tech Events//EN"

// ICS exports one event as a single-VEVENT calendar. DTSTART is written as
// an all-day date only when the event date parses.
func ICS(e domain.Event, n *discovery.Normalizer, defaults Defaults) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	ve := cal.AddEvent(fmt.Sprintf("event-%s@events-widget", e.ID))
	ve.SetDtStampTime(n.Now().UTC())
	if c := e.Created(n.Location()); c.Kind == domain.DateParsed {
		ve.SetCreatedTime(c.Time.UTC())
	}
	ve.SetSummary(PlainText(e.Title))
	ve.SetLocation(location(e, defaults))
	ve.SetDescription(fmt.Sprintf("Category: %s\nSource: %s", n.DisplayCategory(e), sourceName(e)))
	if e.SourceURL != "" {
		ve.SetURL(e.SourceURL)
	}
	pos := e.Coordinates(defaults.Center)
	ve.SetGeo(pos.Latitude, pos.Longitude)

	if d := e.EventDate(n.Location()); d.Kind == domain.DateParsed {
		t := d.Time.In(n.Location())
		ve.SetAllDayStartAt(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	}

	return cal.Serialize()
}

func sourceName(e domain.Event) string {
	if s := PlainText(e.SourceName); s != "" {
		return s
	}
	return UnknownSource
}
