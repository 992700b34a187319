package domain

import (
	"context"
)

// EventSource delivers the raw event list for one page load.
type EventSource interface {
	FetchEvents(ctx context.Context) ([]Event, error)
}
