package discovery

import (
	"strconv"
	"strings"
	"time"

	"github.com/yair/events-widget/pkg/domain"
)

// DateTBD is shown when an event has neither a date nor a creation time.
const DateTBD = "Date TBD"

// displayDateLayout renders dates like "1 Jun 2024".
const displayDateLayout = "2 Jan 2006"

type titleKeyword struct {
	keyword  string
	category domain.Category
}

// Checked in order; the first hit wins.
var titleKeywords = []titleKeyword{
	{"hackathon", domain.CategoryHackathon},
	{"workshop", domain.CategoryWorkshop},
	{"meetup", domain.CategoryMeetup},
	{"conference", domain.CategoryConference},
	{"expo", domain.CategoryExpo},
	{"exhibition", domain.CategoryExpo},
}

var rawCategories = map[string]domain.Category{
	"hackathon": domain.CategoryHackathon,
	"workshop":  domain.CategoryWorkshop,
	"meetup":    domain.CategoryMeetup,
}

// Normalizer derives display strings from raw event records. All methods
// are pure with respect to the record; TimeAgo also reads the clock.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

func NewNormalizer(loc *time.Location, now func() time.Time) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{loc: loc, now: now}
}

// Location is the zone dates are parsed and displayed in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Now reads the normalizer's clock.
func (n *Normalizer) Now() time.Time {
	return n.now()
}

// DisplayCategory infers a category from title keywords, then the raw
// category field, and defaults to Meetup.
func (n *Normalizer) DisplayCategory(e domain.Event) domain.Category {
	title := strings.ToLower(e.Title)
	for _, kw := range titleKeywords {
		if strings.Contains(title, kw.keyword) {
			return kw.category
		}
	}

	if c, ok := rawCategories[strings.ToLower(strings.TrimSpace(e.Category))]; ok {
		return c
	}

	return domain.CategoryMeetup
}

// DisplayDate falls back from the event date to created_at to DateTBD.
func (n *Normalizer) DisplayDate(e domain.Event) string {
	if s, ok := n.formatDate(e.EventDate(n.loc)); ok {
		return s
	}
	if s, ok := n.formatDate(e.Created(n.loc)); ok {
		return s
	}
	return DateTBD
}

func (n *Normalizer) formatDate(v domain.DateValue) (string, bool) {
	switch v.Kind {
	case domain.DateParsed:
		return v.Time.In(n.loc).Format(displayDateLayout), true
	case domain.DateRaw:
		return v.Raw, true
	case domain.DateAbsent:
		return "", false
	}
	return "", false
}

// TimeAgo renders the age of a creation timestamp. Anything a week or
// older is reported as "weeks ago".
func (n *Normalizer) TimeAgo(createdAt string) string {
	v := domain.ParseDate(createdAt, n.loc)
	switch v.Kind {
	case domain.DateAbsent, domain.DateRaw:
		return "Unknown"
	}

	seconds := int64(n.now().Sub(v.Time) / time.Second)
	switch {
	case seconds < 60:
		return "now"
	case seconds < 3600:
		return strconv.FormatInt(seconds/60, 10) + "m ago"
	case seconds < 86400:
		return strconv.FormatInt(seconds/3600, 10) + "h ago"
	case seconds < 604800:
		return strconv.FormatInt(seconds/86400, 10) + "d ago"
	}
	return "weeks ago"
}

// CreatedAt is the sort key of an event: its parsed creation time, or the
// Unix epoch when missing or unparseable.
func (n *Normalizer) CreatedAt(e domain.Event) time.Time {
	v := e.Created(n.loc)
	if v.Kind == domain.DateParsed {
		return v.Time
	}
	return time.Unix(0, 0)
}
