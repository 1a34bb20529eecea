package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/assignment"
	"github.com/jakechorley/tsp-event-requests/pkg/core/capacity"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

type listResp struct {
	Items      []model.EventRequest `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
	Counts     map[string]int       `json:"counts"`
}

type outcomeResp struct {
	Accepted     bool                `json:"accepted"`
	Reason       string              `json:"reason,omitempty"`
	Message      string              `json:"message,omitempty"`
	AssigneeID   string              `json:"assigneeId,omitempty"`
	EventRequest *model.EventRequest `json:"eventRequest"`
}

type transitionResp struct {
	Accepted     bool                `json:"accepted"`
	From         model.Status        `json:"from"`
	To           model.Status        `json:"to"`
	Standard     bool                `json:"standard"`
	Reversal     bool                `json:"reversal"`
	Message      string              `json:"message,omitempty"`
	EventRequest *model.EventRequest `json:"eventRequest"`
}

type gapResp struct {
	Needed   *int   `json:"needed"`
	Assigned int    `json:"assigned"`
	State    string `json:"state"`
	Delta    int    `json:"delta"`
	Message  string `json:"message"`
}

type staffingResp struct {
	EventRequestID int                                `json:"eventRequestId"`
	Status         model.Status                       `json:"status"`
	Drivers        gapResp                            `json:"drivers"`
	Speakers       gapResp                            `json:"speakers"`
	Volunteers     gapResp                            `json:"volunteers"`
	VanDriver      string                             `json:"vanDriver"`
	TotalShortfall int                                `json:"totalShortfall"`
	FullyStaffed   bool                               `json:"fullyStaffed"`
	Assignees      map[model.Role][]services.Assignee `json:"assignees"`
}

type followUpResp struct {
	EventRequest model.EventRequest `json:"eventRequest"`
	Anchor       string             `json:"anchor"`
	DueAt        string             `json:"dueAt"`
}

func newGapResp(g capacity.Gap) gapResp {
	return gapResp{
		Needed:   g.Needed,
		Assigned: g.Assigned,
		State:    g.State.String(),
		Delta:    g.Delta,
		Message:  g.Message(),
	}
}

func newStaffingResp(result *services.StaffingResult) staffingResp {
	report := result.Report
	return staffingResp{
		EventRequestID: result.EventRequest.ID,
		Status:         result.EventRequest.Status,
		Drivers:        newGapResp(report.Drivers),
		Speakers:       newGapResp(report.Speakers),
		Volunteers:     newGapResp(report.Volunteers),
		VanDriver:      report.VanDriver.String(),
		TotalShortfall: report.TotalShortfall(),
		FullyStaffed:   report.FullyStaffed(),
		Assignees:      result.Assignees,
	}
}

// outcomeStatus maps an assignment decision to an HTTP status
func outcomeStatus(o assignment.Outcome) int {
	switch {
	case o.Accepted:
		return http.StatusOK
	case o.Reason == assignment.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case o.Reason == assignment.ReasonInvalidRole, o.Reason == assignment.ReasonInvalidAssignee:
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func writeOutcome(w http.ResponseWriter, result *services.AssignmentResult) {
	jsonOK(w, outcomeStatus(result.Outcome), outcomeResp{
		Accepted:     result.Outcome.Accepted,
		Reason:       string(result.Outcome.Reason),
		Message:      result.Outcome.Message,
		AssigneeID:   result.Outcome.AssigneeID,
		EventRequest: result.EventRequest,
	})
}

// serviceError reports a failed service call
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		jsonError(w, "event request not found", http.StatusNotFound)
	case errors.Is(err, db.ErrVersionConflict):
		jsonError(w, "version_conflict", http.StatusConflict)
	default:
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
