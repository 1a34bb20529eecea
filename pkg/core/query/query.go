package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/roster"
)

const (
	// FilterAll disables status filtering (as does an empty filter)
	FilterAll = "all"
	// FilterMyAssignments selects actionable events the viewer is involved in
	FilterMyAssignments = "my_assignments"
)

type SortKey string

const (
	SortEventDateAsc     SortKey = "event_date_asc"
	SortEventDateDesc    SortKey = "event_date_desc"
	SortOrganizationAsc  SortKey = "organization_asc"
	SortOrganizationDesc SortKey = "organization_desc"
	SortCreatedDateAsc   SortKey = "created_date_asc"
	SortCreatedDateDesc  SortKey = "created_date_desc"
)

// DefaultSortKey is used when no valid sort key is given
const DefaultSortKey = SortCreatedDateDesc

// SortKeys lists every supported sort key
var SortKeys = []SortKey{
	SortEventDateAsc,
	SortEventDateDesc,
	SortOrganizationAsc,
	SortOrganizationDesc,
	SortCreatedDateAsc,
	SortCreatedDateDesc,
}

func (k SortKey) IsValid() bool {
	return slices.Contains(SortKeys, k)
}

// Params selects a page of event requests
type Params struct {
	SearchQuery  string
	StatusFilter string
	SortKey      SortKey

	// Page is 1-based. PageSize <= 0 returns everything on one page.
	Page     int
	PageSize int
}

// Viewer is the person looking at the list, used by the my_assignments filter
type Viewer struct {
	UserID string
	Email  string

	// VolunteerEventIDs are events the viewer volunteers on, kept outside the event record
	VolunteerEventIDs []int
}

// Result is one page of the filtered, sorted collection
type Result struct {
	Items      []model.EventRequest
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Run filters, sorts and paginates all. The input slice is not modified.
func Run(all []model.EventRequest, p Params, viewer *Viewer) Result {
	filtered := Filter(all, p.SearchQuery, p.StatusFilter, viewer)
	Sort(filtered, p.SortKey)
	return Paginate(filtered, p.Page, p.PageSize)
}

// Filter returns the events matching the search and status filter, in input order
func Filter(all []model.EventRequest, search, statusFilter string, viewer *Viewer) []model.EventRequest {
	out := make([]model.EventRequest, 0, len(all))
	for i := range all {
		er := &all[i]
		if !MatchesStatus(er, statusFilter, viewer) {
			continue
		}
		if !MatchesSearch(er, search) {
			continue
		}
		out = append(out, *er)
	}
	return out
}

// MatchesStatus applies the status filter to one event
func MatchesStatus(er *model.EventRequest, statusFilter string, viewer *Viewer) bool {
	switch statusFilter {
	case "", FilterAll:
		return true
	case FilterMyAssignments:
		return er.Status.IsActionable() && IsAssignedTo(er, viewer)
	default:
		return string(er.Status) == statusFilter
	}
}

// IsAssignedTo reports whether viewer holds any contact or staffing role on er
func IsAssignedTo(er *model.EventRequest, viewer *Viewer) bool {
	if viewer == nil || (viewer.UserID == "" && viewer.Email == "") {
		return false
	}

	if slices.Contains(viewer.VolunteerEventIDs, er.ID) {
		return true
	}

	is := func(id string) bool {
		id = strings.TrimSpace(id)
		if id == "" {
			return false
		}
		if viewer.UserID != "" && id == viewer.UserID {
			return true
		}
		return viewer.Email != "" && strings.EqualFold(id, viewer.Email)
	}

	contacts := []string{
		er.TSPContact,
		er.TSPContactAssigned,
		er.AdditionalContact1,
		er.AdditionalContact2,
		er.AssignedVanDriverID,
	}
	if slices.ContainsFunc(contacts, is) {
		return true
	}

	for _, role := range []model.Role{model.RoleDriver, model.RoleSpeaker, model.RoleVolunteer} {
		r := roster.For(er, role)
		if slices.ContainsFunc(r.IDs, is) {
			return true
		}
		// Older driver records keep assignees only in the detail map
		for id := range r.Details {
			if is(id) {
				return true
			}
		}
	}

	return false
}

// Sort orders events in place by key. Ties keep their input order.
func Sort(events []model.EventRequest, key SortKey) {
	if !key.IsValid() {
		key = DefaultSortKey
	}

	var compare func(a, b *model.EventRequest) int
	switch key {
	case SortEventDateAsc:
		compare = func(a, b *model.EventRequest) int { return dateOf(eventDate(a)).Compare(dateOf(eventDate(b))) }
	case SortEventDateDesc:
		compare = func(a, b *model.EventRequest) int { return dateOf(eventDate(b)).Compare(dateOf(eventDate(a))) }
	case SortOrganizationAsc:
		compare = func(a, b *model.EventRequest) int { return cmp.Compare(orgKey(a), orgKey(b)) }
	case SortOrganizationDesc:
		compare = func(a, b *model.EventRequest) int { return cmp.Compare(orgKey(b), orgKey(a)) }
	case SortCreatedDateAsc:
		compare = func(a, b *model.EventRequest) int { return dateOf(a.CreatedAt).Compare(dateOf(b.CreatedAt)) }
	case SortCreatedDateDesc:
		compare = func(a, b *model.EventRequest) int { return dateOf(b.CreatedAt).Compare(dateOf(a.CreatedAt)) }
	}

	slices.SortStableFunc(events, func(a, b model.EventRequest) int {
		return compare(&a, &b)
	})
}

// Paginate slices one page out of events
func Paginate(events []model.EventRequest, page, pageSize int) Result {
	total := len(events)
	if page < 1 {
		page = 1
	}

	if pageSize <= 0 {
		totalPages := 0
		if total > 0 {
			totalPages = 1
		}
		items := events
		if page > 1 {
			items = []model.EventRequest{}
		}
		return Result{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
	}

	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	items := []model.EventRequest{}
	if start < total {
		end := min(start+pageSize, total)
		items = events[start:end]
	}

	return Result{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

// CountByStatus counts events per status filter value, including "all" and
// "my_assignments"
func CountByStatus(all []model.EventRequest, viewer *Viewer) map[string]int {
	counts := map[string]int{FilterAll: len(all), FilterMyAssignments: 0}
	for _, s := range model.AllStatuses {
		counts[string(s)] = 0
	}
	for i := range all {
		er := &all[i]
		counts[string(er.Status)]++
		if MatchesStatus(er, FilterMyAssignments, viewer) {
			counts[FilterMyAssignments]++
		}
	}
	return counts
}

// eventDate is the scheduled date once set, otherwise the desired date
func eventDate(er *model.EventRequest) *time.Time {
	if er.ScheduledEventDate != nil {
		return er.ScheduledEventDate
	}
	return er.DesiredEventDate
}

// dateOf treats a missing date as the Unix epoch
func dateOf(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t
}

func orgKey(er *model.EventRequest) string {
	return strings.ToLower(strings.TrimSpace(er.OrganizationName))
}
