package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

func validSubmission() SubmitRequest {
	return SubmitRequest{
		OrganizationName: "  Hope Church ",
		FirstName:        "Maria",
		LastName:         "Lopez",
		Email:            "maria@example.org",
		DesiredEventDate: date("2025-03-01"),
		DriversNeeded:    intPtr(2),
	}
}

func TestSubmitEventRequest_Valid(t *testing.T) {
	freezeTime(t, signupTime)
	store := newMockStore()

	er, err := SubmitEventRequest(context.Background(), store, zap.NewNop(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, 1, er.ID)
	assert.Equal(t, model.StatusNew, er.Status)
	assert.Equal(t, "Hope Church", er.OrganizationName)
	require.NotNil(t, er.CreatedAt)
	assert.True(t, signupTime.Equal(*er.CreatedAt))
	assert.Equal(t, 2, *er.DriversNeeded)
	assert.Nil(t, er.SpeakersNeeded)
	assert.Contains(t, store.records, 1)
}

func TestSubmitEventRequest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SubmitRequest)
		field  string
	}{
		{name: "bad email", mutate: func(r *SubmitRequest) { r.Email = "not-an-email" }, field: "Email"},
		{name: "missing date", mutate: func(r *SubmitRequest) { r.DesiredEventDate = nil }, field: "DesiredEventDate"},
		{name: "blank organization", mutate: func(r *SubmitRequest) { r.OrganizationName = "   " }, field: "OrganizationName"},
		{name: "negative count", mutate: func(r *SubmitRequest) { r.VolunteersNeeded = intPtr(-1) }, field: "VolunteersNeeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			req := validSubmission()
			tt.mutate(&req)

			_, err := SubmitEventRequest(context.Background(), store, zap.NewNop(), req)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Empty(t, store.records)
		})
	}
}

func TestSubmitEventRequest_InsertError(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("disk full")

	_, err := SubmitEventRequest(context.Background(), store, zap.NewNop(), validSubmission())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert event request")
}
