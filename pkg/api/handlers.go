package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/assignment"
	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/lifecycle"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/query"
	"github.com/jakechorley/tsp-event-requests/pkg/core/services"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// Headers carrying the acting user, set by the fronting proxy
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// Store is the storage the HTTP surface needs
type Store interface {
	db.EventRequestStore
	db.AuditStore
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store    Store
	cfg      *config.Config
	resolver *identifier.Resolver
	logger   *zap.Logger
}

// New creates a new Handler. resolver may be nil.
func New(store Store, cfg *config.Config, resolver *identifier.Resolver, logger *zap.Logger) *Handler {
	return &Handler{store: store, cfg: cfg, resolver: resolver, logger: logger}
}

type roleReq struct {
	Role       model.Role `json:"role"`
	AssigneeID string     `json:"assigneeId"`
	Name       string     `json:"name"`
	// Custom assigns Name under a new custom-person token
	Custom bool `json:"custom"`
}

type statusReq struct {
	Status        model.Status     `json:"status"`
	Action        lifecycle.Action `json:"action"`
	DeclineReason string           `json:"declineReason"`
}

// List handles GET /event-requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := query.Params{
		SearchQuery:  q.Get("q"),
		StatusFilter: q.Get("status"),
		SortKey:      query.SortKey(q.Get("sort")),
	}

	var err error
	if params.Page, err = intParam(q.Get("page")); err != nil {
		jsonError(w, "page must be a number", http.StatusBadRequest)
		return
	}
	if params.PageSize, err = intParam(q.Get("pageSize")); err != nil {
		jsonError(w, "pageSize must be a number", http.StatusBadRequest)
		return
	}

	result, err := services.ListEventRequests(r.Context(), h.store, h.cfg, h.logger, params, viewerFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	jsonOK(w, http.StatusOK, listResp{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		Counts:     result.Counts,
	})
}

// Submit handles POST /event-requests
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	er, err := services.SubmitEventRequest(r.Context(), h.store, h.logger, req)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.serviceError(w, r, err)
		return
	}

	jsonOK(w, http.StatusCreated, er)
}

// Staffing handles GET /event-requests/{id}/staffing
func (h *Handler) Staffing(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	result, err := services.GetStaffing(r.Context(), h.store, h.resolver, h.logger, id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	jsonOK(w, http.StatusOK, newStaffingResp(result))
}

// Audit handles GET /event-requests/{id}/audit
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	entries, err := services.AuditTrail(r.Context(), h.store, h.logger, id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []db.AuditEntry{}
	}

	jsonOK(w, http.StatusOK, entries)
}

// Signup handles POST /event-requests/{id}/signup for the acting user
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	id, req, ok := roleRequest(w, r)
	if !ok {
		return
	}

	result, err := services.SelfSignup(r.Context(), h.store, h.cfg, h.logger, id, req.Role, actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeOutcome(w, result)
}

// Assign handles POST /event-requests/{id}/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, req, ok := roleRequest(w, r)
	if !ok {
		return
	}

	var result *services.AssignmentResult
	var err error
	if req.Custom {
		result, err = services.AssignCustom(r.Context(), h.store, h.cfg, h.logger, id, req.Role, req.Name, actingID(r))
	} else {
		result, err = services.AssignRole(r.Context(), h.store, h.cfg, h.logger, id, req.Role, req.AssigneeID, req.Name, actingID(r))
	}
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeOutcome(w, result)
}

// Unassign handles POST /event-requests/{id}/unassign
func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	id, req, ok := roleRequest(w, r)
	if !ok {
		return
	}

	result, err := services.RemoveRole(r.Context(), h.store, h.cfg, h.logger, id, req.Role, req.AssigneeID, actingID(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeOutcome(w, result)
}

// Rename handles POST /event-requests/{id}/rename for custom assignees
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	id, req, ok := roleRequest(w, r)
	if !ok {
		return
	}

	result, err := services.EditCustomAssignee(r.Context(), h.store, h.cfg, h.logger, id, req.Role, req.AssigneeID, req.Name, actingID(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	writeOutcome(w, result)
}

// ChangeStatus handles POST /event-requests/{id}/status with either a target
// status or a named action
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	opts := lifecycle.Options{DeclineReason: req.DeclineReason, ChangedBy: actingID(r)}

	var result *services.TransitionResult
	var err error
	switch {
	case req.Action != "":
		if _, known := lifecycle.Target(req.Action); !known {
			jsonError(w, "unknown action", http.StatusBadRequest)
			return
		}
		result, err = services.PerformAction(r.Context(), h.store, h.cfg, h.logger, id, req.Action, opts)
	case req.Status.IsValid():
		result, err = services.ChangeStatus(r.Context(), h.store, h.cfg, h.logger, id, req.Status, opts)
	default:
		jsonError(w, "a valid status or action is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	status := http.StatusOK
	if !result.Result.Accepted {
		status = http.StatusConflict
	}
	jsonOK(w, status, transitionResp{
		Accepted:     result.Result.Accepted,
		From:         result.Result.From,
		To:           result.Result.To,
		Standard:     result.Result.Standard,
		Reversal:     result.Result.Reversal,
		Message:      result.Result.Message,
		EventRequest: result.EventRequest,
	})
}

// FollowUps handles GET /follow-ups?asOf=2006-01-02
func (h *Handler) FollowUps(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		day, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			jsonError(w, "asOf must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		// Include everything due at any time on that day
		asOf = day.Add(24*time.Hour - time.Nanosecond)
	}

	due, err := services.FollowUpsDue(r.Context(), h.store, h.cfg, h.logger, asOf)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	resp := make([]followUpResp, 0, len(due))
	for _, f := range due {
		resp = append(resp, followUpResp{
			EventRequest: f.EventRequest,
			Anchor:       f.Anchor.Format(time.DateOnly),
			DueAt:        f.DueAt.Format(time.DateOnly),
		})
	}
	jsonOK(w, http.StatusOK, resp)
}

// --- request helpers ---

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		jsonError(w, "invalid event request id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func roleRequest(w http.ResponseWriter, r *http.Request) (int, roleReq, bool) {
	var req roleReq
	id, ok := idParam(w, r)
	if !ok {
		return 0, req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return 0, req, false
	}
	return id, req, true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// actorFrom returns the acting user, or nil when the request is anonymous
func actorFrom(r *http.Request) *assignment.Actor {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return nil
	}
	return &assignment.Actor{ID: id, Name: strings.TrimSpace(r.Header.Get(HeaderUserName))}
}

func actingID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}

func viewerFrom(r *http.Request) *query.Viewer {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	email := strings.TrimSpace(r.Header.Get(HeaderUserEmail))
	if id == "" && email == "" {
		return nil
	}
	return &query.Viewer{UserID: id, Email: email}
}
