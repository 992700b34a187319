package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventDecoding(t *testing.T) {
	t.Run("API row with integer id and 0/1 flags", func(t *testing.T) {
		payload := `{
			"id": 42,
			"title": "Rust London Meetup",
			"date": "2024-06-01",
			"location": "Shoreditch",
			"category": "meetup",
			"is_free": 1,
			"is_valid": 0,
			"source_name": "Meetup",
			"source_url": "https://www.meetup.com/rust-london/events/123",
			"confidence_score": 0.82,
			"created_at": "2024-05-20 10:11:12",
			"latitude": 51.52,
			"longitude": null
		}`

		var event Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if event.ID != "42" {
			t.Errorf("expected ID to be 42, got %s", event.ID)
		}
		if !event.IsFree {
			t.Error("expected IsFree to be true")
		}
		if event.IsValid {
			t.Error("expected IsValid to be false")
		}
		if !event.Latitude.Valid || event.Latitude.Value != 51.52 {
			t.Errorf("expected Latitude 51.52, got %+v", event.Latitude)
		}
		if event.Longitude.Valid {
			t.Errorf("expected Longitude to be unset, got %+v", event.Longitude)
		}
		if !event.ConfidenceScore.Valid {
			t.Error("expected ConfidenceScore to be set")
		}
	})

	t.Run("string id and boolean flags", func(t *testing.T) {
		var event Event
		err := json.Unmarshal([]byte(`{"id":"evt-1","title":"x","is_free":true,"is_valid":"yes"}`), &event)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID != "evt-1" {
			t.Errorf("expected ID to be evt-1, got %s", event.ID)
		}
		if !event.IsFree || !event.IsValid {
			t.Errorf("expected both flags true, got free=%v valid=%v", event.IsFree, event.IsValid)
		}
	})

	t.Run("malformed coordinates do not fail the decode", func(t *testing.T) {
		var events []Event
		err := json.Unmarshal([]byte(`[{"id":1,"latitude":"51.5","longitude":"west"}]`), &events)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !events[0].Latitude.Valid || events[0].Latitude.Value != 51.5 {
			t.Errorf("expected numeric string latitude to parse, got %+v", events[0].Latitude)
		}
		if events[0].Longitude.Valid {
			t.Errorf("expected junk longitude to be unset, got %+v", events[0].Longitude)
		}
	})
}

func TestEventDecoding_WrongTypes(t *testing.T) {
	t.Run("numbers become text", func(t *testing.T) {
		var event Event
		err := json.Unmarshal([]byte(`{"id":7,"title":2024,"date":20240601,"location":42,"source_url":"https://example.com/e/7"}`), &event)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.Title != "2024" || event.Date != "20240601" || event.Location != "42" {
			t.Errorf("expected numeric fields as text, got title=%q date=%q location=%q", event.Title, event.Date, event.Location)
		}
		if event.SourceURL != "https://example.com/e/7" {
			t.Errorf("expected source_url kept, got %q", event.SourceURL)
		}
	})

	t.Run("other values are dropped", func(t *testing.T) {
		var event Event
		err := json.Unmarshal([]byte(`{"id":true,"title":"Go Meetup","category":["meetup"],"source_name":{"name":"x"},"created_at":false,"is_free":1}`), &event)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if event.ID != "" {
			t.Errorf("expected boolean id to be empty, got %q", event.ID)
		}
		if event.Category != "" || event.SourceName != "" || event.CreatedAt != "" {
			t.Errorf("expected non-text fields empty, got %+v", event)
		}
		if event.Title != "Go Meetup" || !event.IsFree {
			t.Errorf("expected well-typed fields kept, got %+v", event)
		}
	})

	t.Run("non-object rows decode empty", func(t *testing.T) {
		var events []Event
		if err := json.Unmarshal([]byte(`["oops", 3, null, {"id":"a","title":"Rust"}]`), &events); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(events) != 4 {
			t.Fatalf("expected 4 rows, got %d", len(events))
		}
		if events[0].ID != "" || events[1].Title != "" {
			t.Errorf("expected zero events for non-object rows, got %+v %+v", events[0], events[1])
		}
		if events[3].ID != "a" || events[3].Title != "Rust" {
			t.Errorf("unexpected last event %+v", events[3])
		}
	})
}

func TestText(t *testing.T) {
	tests := []struct {
		input string
		want  Text
	}{
		{`"Shoreditch"`, "Shoreditch"},
		{`42`, "42"},
		{`51.5`, "51.5"},
		{`null`, ""},
		{`true`, ""},
		{`{"a":1}`, ""},
		{`[1,2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got Text
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFlag(t *testing.T) {
	tests := []struct {
		input string
		want  Flag
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`0.0`, false},
		{`2`, true},
		{`null`, false},
		{`""`, false},
		{`"0"`, false},
		{`"false"`, false},
		{`"FALSE"`, false},
		{`"1"`, true},
		{`"free"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f != tt.want {
				t.Errorf("Flag(%s) = %v, want %v", tt.input, f, tt.want)
			}
		})
	}

	t.Run("absent flag is false", func(t *testing.T) {
		var event Event
		if err := json.Unmarshal([]byte(`{"id":1}`), &event); err != nil {
			t.Fatal(err)
		}
		if event.IsFree {
			t.Error("expected absent is_free to be false")
		}
	})
}

func TestEventCoordinates(t *testing.T) {
	london := Coordinates{Latitude: 51.5074, Longitude: -0.1278}

	t.Run("missing coordinates fall back", func(t *testing.T) {
		got := Event{}.Coordinates(london)
		if got != london {
			t.Errorf("expected %v, got %v", london, got)
		}
	})

	t.Run("zero coordinates fall back", func(t *testing.T) {
		got := Event{Latitude: Float(0), Longitude: Float(0)}.Coordinates(london)
		if got != london {
			t.Errorf("expected %v, got %v", london, got)
		}
	})

	t.Run("provided coordinates win", func(t *testing.T) {
		got := Event{Latitude: Float(52.52), Longitude: Float(13.405)}.Coordinates(london)
		if got.Latitude != 52.52 || got.Longitude != 13.405 {
			t.Errorf("expected Berlin, got %v", got)
		}
	})
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	tests := []struct {
		name     string
		raw      string
		wantKind DateKind
		wantDay  string
	}{
		{"empty", "", DateAbsent, ""},
		{"whitespace", "   ", DateAbsent, ""},
		{"iso date", "2024-06-01", DateParsed, "2024-06-01"},
		{"sqlite timestamp", "2024-05-20 10:11:12", DateParsed, "2024-05-20"},
		{"rfc3339", "2024-03-10T18:30:00Z", DateParsed, "2024-03-10"},
		{"long form", "14 March 2025", DateParsed, "2025-03-14"},
		{"us form", "March 14, 2025", DateParsed, "2025-03-14"},
		{"free text", "Every other Thursday", DateRaw, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw, loc)
			if got.Kind != tt.wantKind {
				t.Fatalf("ParseDate(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.wantKind)
			}
			if tt.wantDay != "" && got.Time.Format("2006-01-02") != tt.wantDay {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, got.Time.Format("2006-01-02"), tt.wantDay)
			}
			if got.Kind == DateRaw && got.Raw != tt.raw {
				t.Errorf("expected raw text to be kept, got %q", got.Raw)
			}
		})
	}

	t.Run("TBD event date is absent", func(t *testing.T) {
		for _, raw := range []string{"TBD", "tbd", " Tbd "} {
			if got := (Event{Date: raw}).EventDate(loc); got.Kind != DateAbsent {
				t.Errorf("EventDate(%q).Kind = %v, want DateAbsent", raw, got.Kind)
			}
		}
	})
}
