package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

var validate = validator.New()

// SubmitRequest is an organizer's request for a sandwich-delivery event
type SubmitRequest struct {
	OrganizationName string     `json:"organizationName" validate:"required"`
	Department       string     `json:"department"`
	FirstName        string     `json:"firstName" validate:"required"`
	LastName         string     `json:"lastName"`
	Email            string     `json:"email" validate:"required,email"`
	Phone            string     `json:"phone"`
	EventAddress     string     `json:"eventAddress"`
	DesiredEventDate *time.Time `json:"desiredEventDate" validate:"required"`
	DriversNeeded    *int       `json:"driversNeeded" validate:"omitempty,min=0"`
	SpeakersNeeded   *int       `json:"speakersNeeded" validate:"omitempty,min=0"`
	VolunteersNeeded *int       `json:"volunteersNeeded" validate:"omitempty,min=0"`
	VanDriverNeeded  bool       `json:"vanDriverNeeded"`
	Notes            string     `json:"notes"`
}

// SubmitEventRequest validates req and stores it as a new event request
func SubmitEventRequest(ctx context.Context, store db.EventRequestStore, logger *zap.Logger, req SubmitRequest) (*model.EventRequest, error) {
	req.OrganizationName = strings.TrimSpace(req.OrganizationName)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Email = strings.TrimSpace(req.Email)

	if err := validate.Struct(req); err != nil {
		submissions.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("invalid event request: %w", err)
	}

	now := timeNow().UTC()
	er := &model.EventRequest{
		Status:           model.StatusNew,
		OrganizationName: req.OrganizationName,
		Department:       strings.TrimSpace(req.Department),
		FirstName:        req.FirstName,
		LastName:         strings.TrimSpace(req.LastName),
		Email:            req.Email,
		Phone:            strings.TrimSpace(req.Phone),
		EventAddress:     strings.TrimSpace(req.EventAddress),
		Notes:            req.Notes,
		DesiredEventDate: req.DesiredEventDate,
		CreatedAt:        &now,
		StatusChangedAt:  &now,
		DriversNeeded:    req.DriversNeeded,
		SpeakersNeeded:   req.SpeakersNeeded,
		VolunteersNeeded: req.VolunteersNeeded,
		VanDriverNeeded:  req.VanDriverNeeded,
	}

	if err := store.InsertEventRequest(ctx, er); err != nil {
		submissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to insert event request: %w", err)
	}

	submissions.WithLabelValues("accepted").Inc()
	logger.Info("Event request submitted",
		zap.Int("event_request_id", er.ID),
		zap.String("organization", er.OrganizationName),
		zap.Time("desired_event_date", *er.DesiredEventDate))

	return er, nil
}
