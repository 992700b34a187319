package discovery

import (
	"strings"
)

// genericIndicators mark landing and listing pages rather than a single
// event. Some real events are caught too; that is accepted.
var genericIndicators = []string{
	"all-topics",
	"all topics",
	"/events/all",
	"?show=info",
	"show_info",
	"generic",
	"/page",
	"/home",
	"/index.html",
	"browse all events",
	"all events",
}

// IsGenericPage reports whether url/title look like a generic landing page.
func IsGenericPage(url, title string) bool {
	if url == "" {
		return true
	}

	lowerURL := strings.ToLower(url)
	lowerTitle := strings.ToLower(title)

	for _, indicator := range genericIndicators {
		if strings.Contains(lowerURL, indicator) || strings.Contains(lowerTitle, indicator) {
			return true
		}
	}
	return false
}
