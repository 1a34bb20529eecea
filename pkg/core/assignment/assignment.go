package assignment

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/roster"
)

// Assign adds assigneeID to role on behalf of an operator. No capacity check
// is made so an operator can deliberately over-staff.
func Assign(er *model.EventRequest, role model.Role, assigneeID, name, assignedBy string, now time.Time) Outcome {
	if !role.IsValid() {
		return reject(ReasonInvalidRole, "Unknown role %q", role)
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return reject(ReasonInvalidAssignee, "An assignee is required")
	}

	r := roster.For(er, role)
	if r.Contains(assigneeID) {
		return reject(ReasonAlreadyAssigned, "%s is already assigned as a %s", displayName(assigneeID, name), roleLabel(role))
	}

	r.Add(assigneeID, model.AssignmentDetail{
		Name:       displayName(assigneeID, name),
		AssignedAt: now,
		AssignedBy: assignedBy,
	})

	return accept(er, &r, assigneeID, assignedBy, "Assigned %s as a %s", displayName(assigneeID, name), roleLabel(role))
}

// AssignCustom assigns a person who is not in any directory under a new
// custom-person token
func AssignCustom(er *model.EventRequest, role model.Role, name, assignedBy string, now time.Time) Outcome {
	id, err := identifier.NewCustom(name, now)
	if err != nil {
		return reject(ReasonInvalidAssignee, "A name is required for a custom assignee")
	}
	return Assign(er, role, id.Raw, id.Name, assignedBy, now)
}

// Remove takes assigneeID off role, clearing the ID list, detail map and name
// mirror together
func Remove(er *model.EventRequest, role model.Role, assigneeID, removedBy string) Outcome {
	if !role.IsValid() {
		return reject(ReasonInvalidRole, "Unknown role %q", role)
	}

	r := roster.For(er, role)
	name := displayName(assigneeID, r.Details[assigneeID].Name)
	if !r.Remove(assigneeID) {
		return reject(ReasonNotAssigned, "%s is not assigned as a %s", assigneeID, roleLabel(role))
	}

	return accept(er, &r, assigneeID, removedBy, "Removed %s from the %s role", name, roleLabel(role))
}

// SelfSignup adds the acting user to role if the event has room for them
func SelfSignup(er *model.EventRequest, role model.Role, actor *Actor, now time.Time) Outcome {
	if actor == nil || strings.TrimSpace(actor.ID) == "" {
		return reject(ReasonUnauthenticated, "You must be signed in to sign up for a role")
	}
	if !role.IsValid() {
		return reject(ReasonInvalidRole, "Unknown role %q", role)
	}
	if role == model.RoleVanDriver {
		return reject(ReasonRoleNotApplicable, "Self-signup is not available for the van driver role")
	}

	r := roster.For(er, role)
	if r.Contains(actor.ID) {
		return reject(ReasonAlreadySignedUp, "You are already signed up as a %s for this event", roleLabel(role))
	}
	if !er.Status.IsActionable() {
		return reject(ReasonRoleNotApplicable, "This event is %s and no longer accepts sign-ups", er.Status)
	}

	if rejected, ok := checkEligibility(er, role, r.Count()); !ok {
		return rejected
	}

	r.Add(actor.ID, model.AssignmentDetail{
		Name:         actor.DisplayName(),
		AssignedAt:   now,
		AssignedBy:   actor.ID,
		SelfAssigned: true,
	})

	return accept(er, &r, actor.ID, actor.ID, "Signed up as a %s", roleLabel(role))
}

// EditCustom renames a custom-person assignee. The token is re-keyed with the
// same timestamp so headcount and list position are unchanged.
func EditCustom(er *model.EventRequest, role model.Role, assigneeID, newName, editedBy string) Outcome {
	if !role.IsValid() {
		return reject(ReasonInvalidRole, "Unknown role %q", role)
	}

	id := identifier.Parse(assigneeID)
	if !id.IsCustom() {
		return reject(ReasonNotCustom, "Only custom assignees can be edited")
	}

	r := roster.For(er, role)
	if !r.Contains(id.Raw) {
		return reject(ReasonNotAssigned, "%s is not assigned as a %s", id.Name, roleLabel(role))
	}

	renamed, err := id.Rename(newName)
	if err != nil {
		return reject(ReasonInvalidAssignee, "A name is required for a custom assignee")
	}
	if renamed.Raw != id.Raw && r.Contains(renamed.Raw) {
		return reject(ReasonAlreadyAssigned, "%s is already assigned as a %s", renamed.Name, roleLabel(role))
	}

	r.Rekey(id.Raw, renamed.Raw, renamed.Name)

	return accept(er, &r, renamed.Raw, editedBy, "Renamed %s to %s", id.Name, renamed.Name)
}

func checkEligibility(er *model.EventRequest, role model.Role, assigned int) (Outcome, bool) {
	label := roleLabel(role)

	switch role {
	case model.RoleDriver, model.RoleSpeaker:
		needed := er.DriversNeeded
		if role == model.RoleSpeaker {
			needed = er.SpeakersNeeded
		}
		if needed == nil {
			return reject(ReasonNotNeeded, "This event has not specified how many %ss are needed", label), false
		}
		if *needed <= 0 {
			return reject(ReasonNotNeeded, "No %ss are needed for this event", label), false
		}
		if assigned >= *needed {
			return reject(ReasonCapacityReached, "All %d %s spots are filled", *needed, label), false
		}

	case model.RoleVolunteer:
		if er.Status == model.StatusScheduled {
			return Outcome{}, true
		}
		needed := er.VolunteersNeeded
		if needed == nil || *needed <= 0 {
			return reject(ReasonNotNeeded, "Volunteers are not needed for this event"), false
		}
		if assigned >= *needed {
			return reject(ReasonCapacityReached, "All %d volunteer spots are filled", *needed), false
		}
	}

	return Outcome{}, true
}

func accept(er *model.EventRequest, r *roster.Roster, assigneeID, changedBy, format string, args ...any) Outcome {
	update := &model.EventRequestUpdate{
		ExpectedVersion: er.Version,
		ChangedBy:       changedBy,
	}
	r.Patch(update)

	return Outcome{
		Accepted:   true,
		Message:    fmt.Sprintf(format, args...),
		AssigneeID: assigneeID,
		Update:     update,
	}
}

func displayName(id, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if parsed := identifier.Parse(id); parsed.IsCustom() {
		return parsed.Name
	}
	return id
}
