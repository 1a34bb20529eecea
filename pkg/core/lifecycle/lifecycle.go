package lifecycle

import (
	"fmt"
	"slices"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// Action is a named status change an operator can request
type Action string

const (
	ActionStartProcessing Action = "start_processing"
	ActionSchedule        Action = "schedule"
	ActionComplete        Action = "complete"
	ActionDecline         Action = "decline"
	ActionReactivate      Action = "reactivate"
)

var actionTargets = map[Action]model.Status{
	ActionStartProcessing: model.StatusInProcess,
	ActionSchedule:        model.StatusScheduled,
	ActionComplete:        model.StatusCompleted,
	ActionDecline:         model.StatusDeclined,
	ActionReactivate:      model.StatusNew,
}

// transitions is the standard lifecycle graph. completed and declined only
// lead back to new.
var transitions = map[model.Status][]model.Status{
	model.StatusNew:       {model.StatusInProcess, model.StatusScheduled, model.StatusDeclined},
	model.StatusInProcess: {model.StatusScheduled, model.StatusDeclined, model.StatusNew},
	model.StatusScheduled: {model.StatusCompleted, model.StatusDeclined, model.StatusInProcess},
	model.StatusCompleted: {model.StatusNew},
	model.StatusDeclined:  {model.StatusNew},
}

// Target returns the status an action leads to
func Target(action Action) (model.Status, bool) {
	s, ok := actionTargets[action]
	return s, ok
}

// Next returns the statuses reachable from from in the standard graph
func Next(from model.Status) []model.Status {
	return slices.Clone(transitions[from])
}

// IsStandard reports whether from -> to is an edge of the standard graph
func IsStandard(from, to model.Status) bool {
	return slices.Contains(transitions[from], to)
}

// IsReversal reports whether the transition relaunches a finished event
func IsReversal(from, to model.Status) bool {
	return to == model.StatusNew && (from == model.StatusDeclined || from == model.StatusCompleted)
}

// Options carries optional inputs to a transition
type Options struct {
	DeclineReason string
	ChangedBy     string
}

// Result describes a requested transition
type Result struct {
	Accepted bool
	From     model.Status
	To       model.Status

	// Standard is false when the edge is outside the standard graph
	Standard bool
	Reversal bool
	Message  string
	Update   *model.EventRequestUpdate
}

// Machine decides status transitions. In permissive mode (Strict false) any
// known status is accepted; in strict mode only standard edges are.
type Machine struct {
	Strict bool
}

// NewMachine creates a state machine
func NewMachine(strict bool) *Machine {
	return &Machine{Strict: strict}
}

// Perform runs a named action
func (m *Machine) Perform(er *model.EventRequest, action Action, now time.Time, opts Options) Result {
	to, ok := Target(action)
	if !ok {
		return Result{
			From:    er.Status,
			Message: fmt.Sprintf("Unknown action %q", action),
		}
	}
	return m.Transition(er, to, now, opts)
}

// Transition moves er to status to. Moving to scheduled without a scheduled
// date copies the desired date into it.
func (m *Machine) Transition(er *model.EventRequest, to model.Status, now time.Time, opts Options) Result {
	result := Result{
		From:     er.Status,
		To:       to,
		Standard: IsStandard(er.Status, to),
		Reversal: IsReversal(er.Status, to),
	}

	if !to.IsValid() {
		result.Message = fmt.Sprintf("Unknown status %q", to)
		return result
	}
	if m.Strict && !result.Standard {
		result.Message = fmt.Sprintf("Cannot move an event from %s to %s", er.Status, to)
		return result
	}

	status := to
	changedAt := now
	update := &model.EventRequestUpdate{
		Status:          &status,
		StatusChangedAt: &changedAt,
		ExpectedVersion: er.Version,
		ChangedBy:       opts.ChangedBy,
	}

	if to == model.StatusScheduled && er.ScheduledEventDate == nil && er.DesiredEventDate != nil {
		scheduled := *er.DesiredEventDate
		update.ScheduledEventDate = &scheduled
	}
	if to == model.StatusDeclined && opts.DeclineReason != "" {
		reason := opts.DeclineReason
		update.DeclineReason = &reason
	}

	result.Accepted = true
	result.Update = update
	return result
}
