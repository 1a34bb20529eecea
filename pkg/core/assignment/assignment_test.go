package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

var now = time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

func intPtr(i int) *int {
	return &i
}

// applied returns a copy of er with the outcome's update applied
func applied(t *testing.T, er model.EventRequest, outcome Outcome) model.EventRequest {
	t.Helper()
	require.True(t, outcome.Accepted, outcome.Message)
	require.NotNil(t, outcome.Update)
	outcome.Update.Apply(&er)
	er.Version++
	return er
}

func TestSelfSignup_Idempotent(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusInProcess, DriversNeeded: intPtr(3)}
	actor := &Actor{ID: "user_1", Name: "Ann Lee"}

	first := SelfSignup(&er, model.RoleDriver, actor, now)
	er = applied(t, er, first)

	second := SelfSignup(&er, model.RoleDriver, actor, now)

	assert.False(t, second.Accepted)
	assert.Equal(t, ReasonAlreadySignedUp, second.Reason)
	assert.Contains(t, second.Message, "already signed up")
	assert.Nil(t, second.Update)
	assert.Equal(t, []string{"user_1"}, er.AssignedDriverIDs)
}

func TestSelfSignup_WritesSelfAssignedDetail(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusNew, SpeakersNeeded: intPtr(1), Version: 4}
	actor := &Actor{ID: "user_1", Name: "Ann Lee"}

	outcome := SelfSignup(&er, model.RoleSpeaker, actor, now)

	require.True(t, outcome.Accepted)
	assert.Equal(t, 4, outcome.Update.ExpectedVersion)
	assert.Equal(t, "user_1", outcome.Update.ChangedBy)

	detail := (*outcome.Update.SpeakerDetails)["user_1"]
	assert.Equal(t, "Ann Lee", detail.Name)
	assert.True(t, detail.SelfAssigned)
	assert.Equal(t, "user_1", detail.AssignedBy)
	assert.True(t, now.Equal(detail.AssignedAt))
	assert.Equal(t, []string{"Ann Lee"}, *outcome.Update.SpeakerAssignments)

	// Input record untouched
	assert.Empty(t, er.SpeakerDetails)
}

func TestSelfSignup_CapacityEnforcedAdminAllowed(t *testing.T) {
	er := model.EventRequest{
		ID:                1,
		Status:            model.StatusScheduled,
		DriversNeeded:     intPtr(2),
		AssignedDriverIDs: []string{"user_1", "user_2"},
	}

	outcome := SelfSignup(&er, model.RoleDriver, &Actor{ID: "user_3", Name: "Cal"}, now)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonCapacityReached, outcome.Reason)
	assert.Equal(t, "All 2 driver spots are filled", outcome.Message)

	admin := Assign(&er, model.RoleDriver, "user_3", "Cal", "admin_1", now)
	require.True(t, admin.Accepted)
	assert.Equal(t, []string{"user_1", "user_2", "user_3"}, *admin.Update.AssignedDriverIDs)
	assert.False(t, (*admin.Update.DriverDetails)["user_3"].SelfAssigned)
}

func TestSelfSignup_DriverRequiresKnownCapacity(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusInProcess}

	outcome := SelfSignup(&er, model.RoleDriver, &Actor{ID: "user_1"}, now)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonNotNeeded, outcome.Reason)

	er.SpeakersNeeded = intPtr(0)
	outcome = SelfSignup(&er, model.RoleSpeaker, &Actor{ID: "user_1"}, now)
	assert.Equal(t, ReasonNotNeeded, outcome.Reason)
}

func TestSelfSignup_Volunteer(t *testing.T) {
	tests := []struct {
		name     string
		status   model.Status
		needed   *int
		assigned []string
		accepted bool
		reason   Reason
	}{
		{"scheduled without capacity", model.StatusScheduled, nil, nil, true, ""},
		{"scheduled and full", model.StatusScheduled, intPtr(1), []string{"x"}, true, ""},
		{"in process with room", model.StatusInProcess, intPtr(2), []string{"x"}, true, ""},
		{"in process full", model.StatusInProcess, intPtr(1), []string{"x"}, false, ReasonCapacityReached},
		{"in process not needed", model.StatusInProcess, nil, nil, false, ReasonNotNeeded},
		{"new with zero needed", model.StatusNew, intPtr(0), nil, false, ReasonNotNeeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			er := model.EventRequest{
				ID:                   1,
				Status:               tt.status,
				VolunteersNeeded:     tt.needed,
				AssignedVolunteerIDs: tt.assigned,
			}

			outcome := SelfSignup(&er, model.RoleVolunteer, &Actor{ID: "user_9", Name: "Vi"}, now)

			assert.Equal(t, tt.accepted, outcome.Accepted)
			assert.Equal(t, tt.reason, outcome.Reason)
			if tt.accepted {
				assert.Contains(t, *outcome.Update.AssignedVolunteerIDs, "user_9")
				assert.Contains(t, *outcome.Update.VolunteerAssignments, "Vi")
			} else {
				assert.NotEmpty(t, outcome.Message)
				assert.Nil(t, outcome.Update)
			}
		})
	}
}

func TestSelfSignup_Rejections(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusInProcess, DriversNeeded: intPtr(5)}

	outcome := SelfSignup(&er, model.RoleDriver, nil, now)
	assert.Equal(t, ReasonUnauthenticated, outcome.Reason)

	outcome = SelfSignup(&er, model.RoleDriver, &Actor{ID: "  "}, now)
	assert.Equal(t, ReasonUnauthenticated, outcome.Reason)

	outcome = SelfSignup(&er, model.RoleVanDriver, &Actor{ID: "user_1"}, now)
	assert.Equal(t, ReasonRoleNotApplicable, outcome.Reason)

	outcome = SelfSignup(&er, model.Role("chef"), &Actor{ID: "user_1"}, now)
	assert.Equal(t, ReasonInvalidRole, outcome.Reason)

	er.Status = model.StatusCompleted
	outcome = SelfSignup(&er, model.RoleDriver, &Actor{ID: "user_1"}, now)
	assert.Equal(t, ReasonRoleNotApplicable, outcome.Reason)
	assert.Contains(t, outcome.Message, "completed")
}

func TestAssign_DuplicateRejected(t *testing.T) {
	er := model.EventRequest{ID: 1, AssignedVolunteerIDs: []string{"5"}}

	outcome := Assign(&er, model.RoleVolunteer, "5", "Five", "admin", now)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonAlreadyAssigned, outcome.Reason)

	outcome = Assign(&er, model.RoleVolunteer, " ", "", "admin", now)
	assert.Equal(t, ReasonInvalidAssignee, outcome.Reason)
}

func TestAssign_VanDriverReplacesSlot(t *testing.T) {
	er := model.EventRequest{ID: 1, AssignedVanDriverID: "7"}

	outcome := Assign(&er, model.RoleVanDriver, "8", "Eight", "admin", now)

	require.True(t, outcome.Accepted)
	assert.Equal(t, "8", *outcome.Update.AssignedVanDriverID)
	assert.Equal(t, "", *outcome.Update.CustomVanDriverName)
}

func TestAssignCustom(t *testing.T) {
	er := model.EventRequest{ID: 1}

	outcome := AssignCustom(&er, model.RoleVanDriver, "Van Man", "admin", now)

	require.True(t, outcome.Accepted)
	expectedID := "custom-1739188800000-Van-Man"
	assert.Equal(t, expectedID, outcome.AssigneeID)
	assert.Equal(t, expectedID, *outcome.Update.AssignedVanDriverID)
	assert.Equal(t, "Van Man", *outcome.Update.CustomVanDriverName)

	outcome = AssignCustom(&er, model.RoleDriver, "   ", "admin", now)
	assert.Equal(t, ReasonInvalidAssignee, outcome.Reason)
}

func TestRemove_ClearsAllShapes(t *testing.T) {
	er := model.EventRequest{
		ID:                   1,
		AssignedVolunteerIDs: []string{"5", "6"},
		VolunteerDetails: map[string]model.AssignmentDetail{
			"5": {Name: "Five"},
			"6": {Name: "Six"},
		},
		VolunteerAssignments: []string{"Five", "Six"},
	}

	outcome := Remove(&er, model.RoleVolunteer, "5", "admin")

	require.True(t, outcome.Accepted)
	assert.Equal(t, []string{"6"}, *outcome.Update.AssignedVolunteerIDs)
	assert.NotContains(t, *outcome.Update.VolunteerDetails, "5")
	assert.Equal(t, []string{"Six"}, *outcome.Update.VolunteerAssignments)

	missing := Remove(&er, model.RoleVolunteer, "99", "admin")
	assert.Equal(t, ReasonNotAssigned, missing.Reason)
	assert.Nil(t, missing.Update)
}

func TestRemove_ThenSignupAgain(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusInProcess, DriversNeeded: intPtr(1)}
	actor := &Actor{ID: "user_1", Name: "Ann"}

	er = applied(t, er, SelfSignup(&er, model.RoleDriver, actor, now))
	er = applied(t, er, Remove(&er, model.RoleDriver, "user_1", "user_1"))

	assert.Empty(t, er.AssignedDriverIDs)
	assert.Empty(t, er.DriverDetails)

	again := SelfSignup(&er, model.RoleDriver, actor, now)
	assert.True(t, again.Accepted)
}

func TestEditCustom(t *testing.T) {
	er := model.EventRequest{
		ID:                 1,
		SpeakersNeeded:     intPtr(1),
		SpeakerDetails:     map[string]model.AssignmentDetail{"custom-100-Old-Name": {Name: "Old Name"}},
		SpeakerAssignments: []string{"Old Name"},
	}

	outcome := EditCustom(&er, model.RoleSpeaker, "custom-100-Old-Name", "New Name", "admin")

	require.True(t, outcome.Accepted)
	assert.Equal(t, "custom-100-New-Name", outcome.AssigneeID)
	details := *outcome.Update.SpeakerDetails
	assert.Len(t, details, 1)
	assert.Equal(t, "New Name", details["custom-100-New-Name"].Name)
	assert.Equal(t, []string{"New Name"}, *outcome.Update.SpeakerAssignments)
}

func TestEditCustom_Rejections(t *testing.T) {
	er := model.EventRequest{ID: 1, AssignedDriverIDs: []string{"user_1"}}

	outcome := EditCustom(&er, model.RoleDriver, "user_1", "Someone", "admin")
	assert.Equal(t, ReasonNotCustom, outcome.Reason)

	outcome = EditCustom(&er, model.RoleDriver, "custom-1-Ghost", "Someone", "admin")
	assert.Equal(t, ReasonNotAssigned, outcome.Reason)

	er.AssignedDriverIDs = append(er.AssignedDriverIDs, "custom-1-Ghost")
	outcome = EditCustom(&er, model.RoleDriver, "custom-1-Ghost", " ", "admin")
	assert.Equal(t, ReasonInvalidAssignee, outcome.Reason)
}

func TestSelfSignup_AlreadySignedUpOnFinishedEvent(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusCompleted, AssignedDriverIDs: []string{"user_1"}}

	outcome := SelfSignup(&er, model.RoleDriver, &Actor{ID: "user_1"}, now)

	assert.False(t, outcome.Accepted)
	assert.Equal(t, ReasonAlreadySignedUp, outcome.Reason)
	assert.Nil(t, outcome.Update)
}

func TestAcceptedOutcomeMessages(t *testing.T) {
	er := model.EventRequest{ID: 1, Status: model.StatusInProcess, DriversNeeded: intPtr(2)}

	signup := SelfSignup(&er, model.RoleDriver, &Actor{ID: "user_1", Name: "Ann"}, now)
	assert.Equal(t, "Signed up as a driver", signup.Message)
	er = applied(t, er, signup)

	assign := Assign(&er, model.RoleVanDriver, "8", "Vic", "admin", now)
	assert.Equal(t, "Assigned Vic as a van driver", assign.Message)

	custom := AssignCustom(&er, model.RoleSpeaker, "Old Name", "admin", time.UnixMilli(100))
	assert.Equal(t, "Assigned Old Name as a speaker", custom.Message)
	er = applied(t, er, custom)

	rename := EditCustom(&er, model.RoleSpeaker, "custom-100-Old-Name", "New Name", "admin")
	assert.Equal(t, "Renamed Old Name to New Name", rename.Message)

	remove := Remove(&er, model.RoleDriver, "user_1", "admin")
	assert.Equal(t, "Removed Ann from the driver role", remove.Message)
}
