package capacity

import (
	"fmt"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/roster"
)

// FillState classifies a role's staffing against its requirement
type FillState int

const (
	// Unconstrained means no requirement was specified
	Unconstrained FillState = iota
	UnderStaffed
	FullyStaffed
	OverStaffed
)

func (s FillState) String() string {
	switch s {
	case UnderStaffed:
		return "under_staffed"
	case FullyStaffed:
		return "fully_staffed"
	case OverStaffed:
		return "over_staffed"
	default:
		return "unconstrained"
	}
}

// Classify compares the assigned count with the requirement.
// A nil or negative requirement counts as unspecified.
func Classify(needed *int, assigned int) FillState {
	if needed == nil || *needed < 0 {
		return Unconstrained
	}
	switch {
	case assigned < *needed:
		return UnderStaffed
	case assigned == *needed:
		return FullyStaffed
	default:
		return OverStaffed
	}
}

// Gap is the staffing summary for one role
type Gap struct {
	Role     model.Role
	Needed   *int
	Assigned int
	State    FillState

	// Delta is the shortfall when under-staffed and the surplus when over-staffed
	Delta int
}

// Summarize builds the Gap for a role
func Summarize(role model.Role, needed *int, assigned int) Gap {
	g := Gap{
		Role:     role,
		Needed:   needed,
		Assigned: assigned,
		State:    Classify(needed, assigned),
	}
	switch g.State {
	case UnderStaffed:
		g.Delta = *needed - assigned
	case OverStaffed:
		g.Delta = assigned - *needed
	}
	return g
}

// Message renders the gap for display
func (g Gap) Message() string {
	switch g.State {
	case UnderStaffed:
		return fmt.Sprintf("Need %d more", g.Delta)
	case OverStaffed:
		return fmt.Sprintf("+%d extra", g.Delta)
	case FullyStaffed:
		return "Fully staffed"
	default:
		return "No requirement"
	}
}

// VanDriverState reports the van driver slot. Only the presence of an assigned
// van driver fills it; the numeric needed/assigned math does not apply.
func VanDriverState(er *model.EventRequest) FillState {
	if er.AssignedVanDriverID != "" {
		return FullyStaffed
	}
	if er.VanDriverNeeded {
		return UnderStaffed
	}
	return Unconstrained
}

// StaffingReport summarises every role of an event
type StaffingReport struct {
	Drivers    Gap
	Speakers   Gap
	Volunteers Gap
	VanDriver  FillState
}

// Report computes the staffing report for er
func Report(er *model.EventRequest) StaffingReport {
	drivers := roster.For(er, model.RoleDriver)
	speakers := roster.For(er, model.RoleSpeaker)
	volunteers := roster.For(er, model.RoleVolunteer)

	return StaffingReport{
		Drivers:    Summarize(model.RoleDriver, er.DriversNeeded, drivers.Count()),
		Speakers:   Summarize(model.RoleSpeaker, er.SpeakersNeeded, speakers.Count()),
		Volunteers: Summarize(model.RoleVolunteer, er.VolunteersNeeded, volunteers.Count()),
		VanDriver:  VanDriverState(er),
	}
}

// Gaps returns the three numeric role gaps in display order
func (r StaffingReport) Gaps() []Gap {
	return []Gap{r.Drivers, r.Speakers, r.Volunteers}
}

// TotalShortfall sums the people still needed across all roles
func (r StaffingReport) TotalShortfall() int {
	total := 0
	for _, g := range r.Gaps() {
		if g.State == UnderStaffed {
			total += g.Delta
		}
	}
	if r.VanDriver == UnderStaffed {
		total++
	}
	return total
}

// FullyStaffed reports whether no role is short
func (r StaffingReport) FullyStaffed() bool {
	return r.TotalShortfall() == 0
}
