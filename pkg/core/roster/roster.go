// Package roster gives every staffed role the same {ids, details, names} shape.
//
// Drivers and volunteers store an ID list plus a detail map, speakers store
// only a detail map, and the van driver is a single ID with an optional custom
// name. Roster hides those differences behind one accessor and writes changes
// back in each role's native shape.
package roster

import (
	"maps"
	"slices"
	"sort"

	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Roster is the current assignment set for one role on one event
type Roster struct {
	Role    model.Role
	IDs     []string
	Details map[string]model.AssignmentDetail

	// Names mirrors display names for roles that keep a name list
	Names    []string
	hasNames bool
}

// For reads the roster for role from er. The returned roster never aliases er.
func For(er *model.EventRequest, role model.Role) Roster {
	r := Roster{Role: role}

	switch role {
	case model.RoleDriver:
		r.IDs = identifier.NormalizeList(er.AssignedDriverIDs)
		r.Details = cloneDetails(er.DriverDetails)
	case model.RoleSpeaker:
		r.Details = cloneDetails(er.SpeakerDetails)
		r.IDs = orderedKeys(r.Details)
		r.Names = slices.Clone(er.SpeakerAssignments)
		r.hasNames = true
	case model.RoleVolunteer:
		r.IDs = identifier.NormalizeList(er.AssignedVolunteerIDs)
		r.Details = cloneDetails(er.VolunteerDetails)
		r.Names = slices.Clone(er.VolunteerAssignments)
		r.hasNames = true
	case model.RoleVanDriver:
		r.IDs = []string{}
		r.Details = map[string]model.AssignmentDetail{}
		if er.AssignedVanDriverID != "" {
			r.IDs = append(r.IDs, er.AssignedVanDriverID)
			if er.CustomVanDriverName != "" {
				r.Details[er.AssignedVanDriverID] = model.AssignmentDetail{Name: er.CustomVanDriverName}
			}
		}
	default:
		r.IDs = []string{}
		r.Details = map[string]model.AssignmentDetail{}
	}

	return r
}

// Count returns the number of assignees
func (r *Roster) Count() int {
	return len(r.IDs)
}

// Contains reports whether id is assigned
func (r *Roster) Contains(id string) bool {
	return slices.Contains(r.IDs, id)
}

// HasNames reports whether the role keeps a display-name mirror
func (r *Roster) HasNames() bool {
	return r.hasNames
}

// Add appends id with its detail entry. The van driver slot is replaced.
func (r *Roster) Add(id string, detail model.AssignmentDetail) {
	if r.Role == model.RoleVanDriver {
		r.IDs = []string{id}
		r.Details = map[string]model.AssignmentDetail{id: detail}
		return
	}
	r.IDs = append(r.IDs, id)
	r.Details[id] = detail
	if r.hasNames && detail.Name != "" {
		r.Names = append(r.Names, detail.Name)
	}
}

// Remove drops id from the ID list, the detail map and the name mirror.
// Returns false if id was not assigned.
func (r *Roster) Remove(id string) bool {
	if !r.Contains(id) {
		return false
	}
	detail, hasDetail := r.Details[id]

	r.IDs = slices.DeleteFunc(r.IDs, func(s string) bool { return s == id })
	delete(r.Details, id)

	if r.hasNames {
		r.Names = slices.DeleteFunc(r.Names, func(s string) bool { return s == id })
		if hasDetail && detail.Name != "" {
			if i := slices.Index(r.Names, detail.Name); i >= 0 {
				r.Names = slices.Delete(r.Names, i, i+1)
			}
		}
	}
	return true
}

// Rekey replaces oldID with newID in place, keeping list position, and renames
// the detail and mirror entries to name
func (r *Roster) Rekey(oldID, newID, name string) bool {
	i := slices.Index(r.IDs, oldID)
	if i < 0 {
		return false
	}
	r.IDs[i] = newID

	detail := r.Details[oldID]
	oldName := detail.Name
	delete(r.Details, oldID)
	detail.Name = name
	r.Details[newID] = detail

	if r.hasNames {
		for j, n := range r.Names {
			if n == oldID || (oldName != "" && n == oldName) {
				r.Names[j] = name
				break
			}
		}
	}
	return true
}

// Patch writes the roster back onto update in the role's native shape
func (r *Roster) Patch(update *model.EventRequestUpdate) {
	ids := slices.Clone(r.IDs)
	details := cloneDetails(r.Details)

	switch r.Role {
	case model.RoleDriver:
		update.AssignedDriverIDs = &ids
		update.DriverDetails = &details
	case model.RoleSpeaker:
		names := nonNil(r.Names)
		update.SpeakerDetails = &details
		update.SpeakerAssignments = &names
	case model.RoleVolunteer:
		names := nonNil(r.Names)
		update.AssignedVolunteerIDs = &ids
		update.VolunteerDetails = &details
		update.VolunteerAssignments = &names
	case model.RoleVanDriver:
		var id, customName string
		if len(ids) > 0 {
			id = ids[0]
			if identifier.Parse(id).IsCustom() {
				customName = details[id].Name
			}
		}
		update.AssignedVanDriverID = &id
		update.CustomVanDriverName = &customName
	}
}

func cloneDetails(in map[string]model.AssignmentDetail) map[string]model.AssignmentDetail {
	if in == nil {
		return map[string]model.AssignmentDetail{}
	}
	return maps.Clone(in)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// orderedKeys returns detail keys by assignment time, then key
func orderedKeys(details map[string]model.AssignmentDetail) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ai, aj := details[keys[i]].AssignedAt, details[keys[j]].AssignedAt
		if !ai.Equal(aj) {
			return ai.Before(aj)
		}
		return keys[i] < keys[j]
	})
	return keys
}
