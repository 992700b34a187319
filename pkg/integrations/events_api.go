package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yair/events-widget/pkg/domain"
)

type EventsAPIClient struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
}

type EventsAPIConfig struct {
	// Endpoint is the full URL of the events listing, e.g.
	// http://127.0.0.1:5000/api/events.
	Endpoint  string
	UserAgent string
	// Timeout bounds the single request. Zero means no client-side timeout.
	Timeout time.Duration
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("events API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("events API error: status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return domain.ErrExternalAPIFailure
}

func NewEventsAPIClient(config EventsAPIConfig) (*EventsAPIClient, error) {
	endpoint := strings.TrimSpace(config.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("events API endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("events API endpoint must be an http(s) URL: %s", endpoint)
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "EventsWidget/1.0"
	}

	return &EventsAPIClient{
		endpoint:  endpoint,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// FetchEvents performs one GET against the endpoint. There is no retry: a
// transport error, a non-2xx status or an undecodable body fails the load.
func (c *EventsAPIClient) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w: %w", domain.ErrExternalAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	var events []domain.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w: %w", domain.ErrExternalAPIFailure, err)
	}
	if events == nil {
		events = []domain.Event{}
	}

	return events, nil
}
