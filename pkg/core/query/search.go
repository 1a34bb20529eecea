package query

import (
	"strings"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// dateLayouts are the renderings of the desired event date a search can match
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Monday, January 2, 2006",
	"2 January 2006",
	"Jan 2",
}

// MatchesSearch reports whether er matches q. Matching is case-insensitive on
// substrings of the organizer fields, or of any rendering of the desired date.
// An empty query matches everything.
func MatchesSearch(er *model.EventRequest, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}

	fields := []string{
		er.OrganizationName,
		er.Department,
		er.FirstName,
		er.LastName,
		er.Email,
		er.EventAddress,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}

	return matchesDate(er.DesiredEventDate, q)
}

func matchesDate(d *time.Time, q string) bool {
	if d == nil {
		return false
	}
	// Calendar dates are stored as UTC midnight
	day := d.UTC()
	for _, layout := range dateLayouts {
		if strings.Contains(strings.ToLower(day.Format(layout)), q) {
			return true
		}
	}
	return false
}
