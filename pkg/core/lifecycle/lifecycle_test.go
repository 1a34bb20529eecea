package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

var now = time.Date(2025, 2, 1, 15, 0, 0, 0, time.UTC)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestTransition_ScheduleCopiesDesiredDate(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusInProcess, DesiredEventDate: date("2025-03-01"), Version: 2}

	result := NewMachine(false).Transition(er, model.StatusScheduled, now, Options{ChangedBy: "admin"})

	require.True(t, result.Accepted)
	require.NotNil(t, result.Update.ScheduledEventDate)
	assert.Equal(t, "2025-03-01", result.Update.ScheduledEventDate.Format("2006-01-02"))
	assert.Equal(t, model.StatusScheduled, *result.Update.Status)
	assert.True(t, now.Equal(*result.Update.StatusChangedAt))
	assert.Equal(t, 2, result.Update.ExpectedVersion)
	assert.Equal(t, "admin", result.Update.ChangedBy)
	assert.True(t, result.Standard)
}

func TestTransition_ScheduleKeepsExistingDate(t *testing.T) {
	er := &model.EventRequest{
		ID:                 1,
		Status:             model.StatusInProcess,
		DesiredEventDate:   date("2025-03-01"),
		ScheduledEventDate: date("2025-03-08"),
	}

	result := NewMachine(false).Transition(er, model.StatusScheduled, now, Options{})

	require.True(t, result.Accepted)
	assert.Nil(t, result.Update.ScheduledEventDate)
}

func TestTransition_ScheduleWithoutDesiredDate(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusNew}

	result := NewMachine(false).Transition(er, model.StatusScheduled, now, Options{})

	require.True(t, result.Accepted)
	assert.Nil(t, result.Update.ScheduledEventDate)
}

func TestTransition_PermissiveAcceptsNonStandardEdges(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusNew}

	result := NewMachine(false).Transition(er, model.StatusCompleted, now, Options{})

	assert.True(t, result.Accepted)
	assert.False(t, result.Standard)
}

func TestTransition_StrictRejectsNonStandardEdges(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusNew}
	m := NewMachine(true)

	result := m.Transition(er, model.StatusCompleted, now, Options{})
	assert.False(t, result.Accepted)
	assert.Nil(t, result.Update)
	assert.Equal(t, "Cannot move an event from new to completed", result.Message)

	result = m.Transition(er, model.StatusInProcess, now, Options{})
	assert.True(t, result.Accepted)
}

func TestTransition_UnknownStatusAlwaysRejected(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusNew}

	for _, strict := range []bool{false, true} {
		result := NewMachine(strict).Transition(er, model.Status("archived"), now, Options{})
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Message, "Unknown status")
	}
}

func TestTransition_Reversals(t *testing.T) {
	m := NewMachine(true)

	for _, from := range []model.Status{model.StatusDeclined, model.StatusCompleted} {
		er := &model.EventRequest{ID: 1, Status: from}
		result := m.Perform(er, ActionReactivate, now, Options{})

		assert.True(t, result.Accepted, string(from))
		assert.True(t, result.Reversal, string(from))
		assert.Equal(t, model.StatusNew, *result.Update.Status)
		// Only status bookkeeping changes
		assert.Equal(t, []string{"status", "statusChangedAt"}, result.Update.Fields())
	}

	assert.False(t, IsReversal(model.StatusInProcess, model.StatusNew))
}

func TestPerform_DeclineRecordsReason(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusInProcess}

	result := NewMachine(false).Perform(er, ActionDecline, now, Options{DeclineReason: "No venue"})

	require.True(t, result.Accepted)
	assert.Equal(t, "No venue", *result.Update.DeclineReason)
}

func TestPerform_UnknownAction(t *testing.T) {
	er := &model.EventRequest{ID: 1, Status: model.StatusInProcess}

	result := NewMachine(false).Perform(er, Action("archive"), now, Options{})

	assert.False(t, result.Accepted)
	assert.Contains(t, result.Message, "Unknown action")
}

func TestNext(t *testing.T) {
	assert.Equal(t, []model.Status{model.StatusNew}, Next(model.StatusCompleted))
	assert.Empty(t, Next(model.Status("bogus")))

	next := Next(model.StatusNew)
	next[0] = model.StatusDeclined
	assert.Equal(t, model.StatusInProcess, Next(model.StatusNew)[0])
}
