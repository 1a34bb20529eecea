package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/assignment"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// AssignmentResult is the outcome of an assignment request and the record it
// was decided against (after the write when accepted)
type AssignmentResult struct {
	Outcome      assignment.Outcome
	EventRequest *model.EventRequest
}

// SelfSignup signs the acting user up for role on event request id
func SelfSignup(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, role model.Role, actor *assignment.Actor) (*AssignmentResult, error) {
	return runAssignment(ctx, store, cfg, logger, id, "self_signup", role, func(er *model.EventRequest) assignment.Outcome {
		return assignment.SelfSignup(er, role, actor, timeNow())
	})
}

// AssignRole assigns assigneeID to role on behalf of an operator, without a capacity check
func AssignRole(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, role model.Role, assigneeID, name, assignedBy string) (*AssignmentResult, error) {
	return runAssignment(ctx, store, cfg, logger, id, "assign", role, func(er *model.EventRequest) assignment.Outcome {
		return assignment.Assign(er, role, assigneeID, name, assignedBy, timeNow())
	})
}

// AssignCustom assigns a person who is not in the directory, by name
func AssignCustom(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, role model.Role, name, assignedBy string) (*AssignmentResult, error) {
	return runAssignment(ctx, store, cfg, logger, id, "assign_custom", role, func(er *model.EventRequest) assignment.Outcome {
		return assignment.AssignCustom(er, role, name, assignedBy, timeNow())
	})
}

// RemoveRole takes assigneeID off role
func RemoveRole(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, role model.Role, assigneeID, removedBy string) (*AssignmentResult, error) {
	return runAssignment(ctx, store, cfg, logger, id, "remove", role, func(er *model.EventRequest) assignment.Outcome {
		return assignment.Remove(er, role, assigneeID, removedBy)
	})
}

// EditCustomAssignee renames a custom assignee in place
func EditCustomAssignee(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, role model.Role, assigneeID, newName, editedBy string) (*AssignmentResult, error) {
	return runAssignment(ctx, store, cfg, logger, id, "edit_custom", role, func(er *model.EventRequest) assignment.Outcome {
		return assignment.EditCustom(er, role, assigneeID, newName, editedBy)
	})
}

func runAssignment(
	ctx context.Context,
	store db.EventRequestStore,
	cfg *config.Config,
	logger *zap.Logger,
	id int,
	operation string,
	role model.Role,
	decide func(er *model.EventRequest) assignment.Outcome,
) (*AssignmentResult, error) {
	logger.Debug("Processing assignment request",
		zap.Int("event_request_id", id),
		zap.String("operation", operation),
		zap.String("role", string(role)))

	var outcome assignment.Outcome
	er, err := updateWithRetry(ctx, store, cfg, logger, id, operation, func(er *model.EventRequest) *model.EventRequestUpdate {
		outcome = decide(er)
		return outcome.Update
	})
	if err != nil {
		return nil, err
	}

	assignmentOutcomes.WithLabelValues(operation, string(role), resultLabel(outcome.Accepted, string(outcome.Reason))).Inc()

	if outcome.Accepted {
		logger.Info("Assignment updated",
			zap.Int("event_request_id", id),
			zap.String("operation", operation),
			zap.String("role", string(role)),
			zap.String("assignee", outcome.AssigneeID))
	} else {
		logger.Info("Assignment rejected",
			zap.Int("event_request_id", id),
			zap.String("operation", operation),
			zap.String("role", string(role)),
			zap.String("reason", string(outcome.Reason)))
	}

	return &AssignmentResult{Outcome: outcome, EventRequest: er}, nil
}
