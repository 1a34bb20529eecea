package assignment

import (
	"fmt"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Reason identifies why an assignment request was rejected
type Reason string

const (
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonInvalidRole       Reason = "invalid_role"
	ReasonInvalidAssignee   Reason = "invalid_assignee"
	ReasonRoleNotApplicable Reason = "role_not_applicable"
	ReasonAlreadySignedUp   Reason = "already_signed_up"
	ReasonAlreadyAssigned   Reason = "already_assigned"
	ReasonCapacityReached   Reason = "capacity_reached"
	ReasonNotNeeded         Reason = "not_needed"
	ReasonNotAssigned       Reason = "not_assigned"
	ReasonNotCustom         Reason = "not_custom"
)

// Actor is the signed-in user performing a self-signup
type Actor struct {
	ID   string
	Name string
}

// DisplayName returns the actor's name, falling back to their ID
func (a *Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// Outcome is the result of an assignment request. A rejected outcome never
// carries an update.
type Outcome struct {
	Accepted   bool
	Reason     Reason
	Message    string
	AssigneeID string
	Update     *model.EventRequestUpdate
}

func reject(reason Reason, format string, args ...any) Outcome {
	return Outcome{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

func roleLabel(role model.Role) string {
	if role == model.RoleVanDriver {
		return "van driver"
	}
	return string(role)
}
