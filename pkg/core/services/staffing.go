package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/capacity"
	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/roster"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// Assignee is one person on a role, resolved for display
type Assignee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Custom       bool   `json:"custom"`
	SelfAssigned bool   `json:"selfAssigned"`
}

// StaffingResult is the staffing picture of a single event request
type StaffingResult struct {
	EventRequest *model.EventRequest
	Report       capacity.StaffingReport
	Assignees    map[model.Role][]Assignee
}

// GetStaffing loads an event request and reports its gaps and assignees.
// resolver may be nil, in which case only custom names and stored detail names resolve.
func GetStaffing(ctx context.Context, store db.EventRequestReader, resolver *identifier.Resolver, logger *zap.Logger, id int) (*StaffingResult, error) {
	er, err := store.GetEventRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event request: %w", err)
	}

	if resolver == nil {
		resolver = identifier.NewResolver(nil)
	}

	result := &StaffingResult{
		EventRequest: er,
		Report:       capacity.Report(er),
		Assignees:    make(map[model.Role][]Assignee, len(model.AllRoles)),
	}

	for _, role := range model.AllRoles {
		r := roster.For(er, role)
		assignees := make([]Assignee, 0, len(r.IDs))
		for _, assigneeID := range r.IDs {
			detail := r.Details[assigneeID]
			assignees = append(assignees, Assignee{
				ID:           assigneeID,
				Name:         resolver.DisplayName(assigneeID, r.Details),
				Custom:       identifier.Parse(assigneeID).IsCustom(),
				SelfAssigned: detail.SelfAssigned,
			})
		}
		result.Assignees[role] = assignees
	}

	logger.Debug("Staffing computed",
		zap.Int("event_request_id", id),
		zap.Int("shortfall", result.Report.TotalShortfall()),
		zap.String("drivers", result.Report.Drivers.State.String()),
		zap.String("speakers", result.Report.Speakers.State.String()),
		zap.String("volunteers", result.Report.Volunteers.State.String()),
		zap.String("van_driver", result.Report.VanDriver.String()))

	return result, nil
}
