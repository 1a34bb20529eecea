package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

func TestFollowUpsDue_WeeklyCadence(t *testing.T) {
	asOf := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	store := newMockStore(
		model.EventRequest{ID: 1, Status: model.StatusInProcess, ToolkitSentDate: date("2025-02-01")},
		model.EventRequest{ID: 2, Status: model.StatusInProcess, ToolkitSentDate: date("2025-02-05")},
		model.EventRequest{ID: 3, Status: model.StatusInProcess, ToolkitSentDate: date("2025-01-10"), LastFollowUpDate: date("2025-02-06")},
		model.EventRequest{ID: 4, Status: model.StatusInProcess, ToolkitSentDate: date("2025-01-20")},
		model.EventRequest{ID: 5, Status: model.StatusInProcess, ToolkitSentDate: date("2025-01-01"), LastFollowUpDate: date("2025-01-30")},
		model.EventRequest{ID: 6, Status: model.StatusScheduled, ToolkitSentDate: date("2025-01-01")},
		model.EventRequest{ID: 7, Status: model.StatusInProcess},
	)

	due, err := FollowUpsDue(context.Background(), store, testConfig(), zap.NewNop(), asOf)
	require.NoError(t, err)

	require.Len(t, due, 3)
	assert.Equal(t, 4, due[0].EventRequest.ID)
	assert.Equal(t, "2025-01-27", due[0].DueAt.Format("2006-01-02"))
	assert.Equal(t, 5, due[1].EventRequest.ID)
	assert.Equal(t, "2025-01-30", due[1].Anchor.Format("2006-01-02"))
	assert.Equal(t, "2025-02-06", due[1].DueAt.Format("2006-01-02"))
	assert.Equal(t, 1, due[2].EventRequest.ID)
	assert.Equal(t, "2025-02-08", due[2].DueAt.Format("2006-01-02"))
}

func TestFollowUpsDue_CustomRule(t *testing.T) {
	store := newMockStore(model.EventRequest{ID: 1, Status: model.StatusInProcess, ToolkitSentDate: date("2025-02-07")})
	cfg := testConfig()
	cfg.FollowUp.RRule = "FREQ=DAILY;INTERVAL=3"

	due, err := FollowUpsDue(context.Background(), store, cfg, zap.NewNop(), time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, "2025-02-10", due[0].DueAt.Format("2006-01-02"))
}

func TestFollowUpsDue_InvalidRule(t *testing.T) {
	cfg := testConfig()
	cfg.FollowUp.RRule = "FREQ=SOMETIMES"

	_, err := FollowUpsDue(context.Background(), newMockStore(), cfg, zap.NewNop(), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse follow-up rrule")
}
