package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is a single record as returned by the events API. It is read-only
// input: nothing in the widget mutates a decoded Event.
type Event struct {
	ID              EventID  `json:"id"`
	Title           string   `json:"title"`
	SourceURL       string   `json:"source_url,omitempty"`
	SourceName      string   `json:"source_name,omitempty"`
	Category        string   `json:"category,omitempty"`
	Date            string   `json:"date,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	Location        string   `json:"location,omitempty"`
	Latitude        OptFloat `json:"latitude"`
	Longitude       OptFloat `json:"longitude"`
	IsFree          Flag     `json:"is_free"`
	IsValid         Flag     `json:"is_valid"`
	ConfidenceScore OptFloat `json:"confidence_score"`
}

// UnmarshalJSON decodes one API row. Wrongly typed fields are dropped
// instead of failing the row. A row that is not an object decodes to the
// zero Event.
func (e *Event) UnmarshalJSON(data []byte) error {
	*e = Event{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	type plain Event
	var row struct {
		plain
		Title      Text `json:"title"`
		SourceURL  Text `json:"source_url"`
		SourceName Text `json:"source_name"`
		Category   Text `json:"category"`
		Date       Text `json:"date"`
		CreatedAt  Text `json:"created_at"`
		Location   Text `json:"location"`
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("event: %w", err)
	}

	*e = Event(row.plain)
	e.Title = string(row.Title)
	e.SourceURL = string(row.SourceURL)
	e.SourceName = string(row.SourceName)
	e.Category = string(row.Category)
	e.Date = string(row.Date)
	e.CreatedAt = string(row.CreatedAt)
	e.Location = string(row.Location)
	return nil
}

// EventID is an opaque identifier. The API emits integers; other feeds use
// strings, so both decode into the same type. Any other JSON value leaves
// the id empty.
type EventID string

func (id *EventID) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*id = EventID(t)
	return nil
}

func (id EventID) String() string {
	return string(id)
}

// Text is a lenient free-text field: strings decode as-is, numbers keep
// their literal form, and anything else decodes as empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*t = Text(s)
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
	}
	return nil
}

// Flag is a boolean-like field. The API stores flags as 0/1 integers, some
// feeds send booleans or strings.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("flag: %w", err)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		*f = Flag(s != "" && s != "0" && s != "false")
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			// Objects and arrays are truthy.
			*f = true
			return nil
		}
		*f = Flag(n != 0)
	}
	return nil
}

// OptFloat is an optional number. Numeric strings are accepted; anything
// else that is not a number leaves it unset instead of failing the decode.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float returns a set OptFloat.
func Float(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

func (o *OptFloat) UnmarshalJSON(data []byte) error {
	*o = OptFloat{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*o = OptFloat{Value: v, Valid: true}
	}
	return nil
}

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Coordinates is a resolved map position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinates returns the event position, falling back to def when either
// component is missing or zero.
func (e Event) Coordinates(def Coordinates) Coordinates {
	c := def
	if e.Latitude.Valid && e.Latitude.Value != 0 {
		c.Latitude = e.Latitude.Value
	}
	if e.Longitude.Valid && e.Longitude.Value != 0 {
		c.Longitude = e.Longitude.Value
	}
	return c
}

// DateKind tags the variants of DateValue.
type DateKind int

const (
	DateAbsent DateKind = iota
	DateParsed
	DateRaw
)

// DateValue is a free-text date field after classification. Only one of
// Time (DateParsed) or Raw (DateRaw) is meaningful.
type DateValue struct {
	Kind DateKind
	Time time.Time
	Raw  string
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
}

// ParseDate classifies raw. Layouts without a zone are read in loc.
func ParseDate(raw string, loc *time.Location) DateValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateValue{Kind: DateAbsent}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DateValue{Kind: DateParsed, Time: t, Raw: raw}
		}
	}
	return DateValue{Kind: DateRaw, Raw: raw}
}

// EventDate classifies the event's own date. "TBD" counts as absent.
func (e Event) EventDate(loc *time.Location) DateValue {
	if strings.EqualFold(strings.TrimSpace(e.Date), "tbd") {
		return DateValue{Kind: DateAbsent}
	}
	return ParseDate(e.Date, loc)
}

// Created classifies the record's creation timestamp.
func (e Event) Created(loc *time.Location) DateValue {
	return ParseDate(e.CreatedAt, loc)
}
