package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/assignment"
	"github.com/jakechorley/tsp-event-requests/pkg/core/lifecycle"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	store := newMockStore(
		model.EventRequest{ID: 1, Status: model.StatusNew, VolunteersNeeded: intPtr(5)},
		model.EventRequest{ID: 2, Status: model.StatusNew},
	)

	_, err := ChangeStatus(ctx, store, testConfig(), zap.NewNop(), 1, model.StatusScheduled, lifecycle.Options{ChangedBy: "admin"})
	require.NoError(t, err)
	_, err = SelfSignup(ctx, store, testConfig(), zap.NewNop(), 1, model.RoleVolunteer, &assignment.Actor{ID: "user_3"})
	require.NoError(t, err)
	_, err = ChangeStatus(ctx, store, testConfig(), zap.NewNop(), 2, model.StatusInProcess, lifecycle.Options{})
	require.NoError(t, err)

	entries, err := AuditTrail(ctx, store, zap.NewNop(), 1)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "status", entries[0].Action)
	assert.Equal(t, "self_signup", entries[1].Action)
	assert.Equal(t, []int{2, 3}, []int{entries[0].Version, entries[1].Version})
}

func TestAuditTrail_UnknownRequest(t *testing.T) {
	_, err := AuditTrail(context.Background(), newMockStore(), zap.NewNop(), 12)

	assert.ErrorIs(t, err, db.ErrNotFound)
}
