package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

func TestFor_Driver(t *testing.T) {
	er := &model.EventRequest{
		AssignedDriverIDs: []string{"1", " ", "2"},
		DriverDetails:     map[string]model.AssignmentDetail{"1": {Name: "Ann"}},
	}

	r := For(er, model.RoleDriver)

	assert.Equal(t, []string{"1", "2"}, r.IDs)
	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Contains("2"))
	assert.False(t, r.HasNames())

	// Roster must not alias the record
	r.Details["3"] = model.AssignmentDetail{Name: "Zed"}
	assert.NotContains(t, er.DriverDetails, "3")
}

func TestFor_SpeakerOrderedByAssignment(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	er := &model.EventRequest{
		SpeakerDetails: map[string]model.AssignmentDetail{
			"b": {Name: "Bea", AssignedAt: late},
			"a": {Name: "Al", AssignedAt: late},
			"c": {Name: "Cy", AssignedAt: early},
		},
		SpeakerAssignments: []string{"Cy", "Al", "Bea"},
	}

	r := For(er, model.RoleSpeaker)

	assert.Equal(t, []string{"c", "a", "b"}, r.IDs)
	assert.True(t, r.HasNames())
	assert.Equal(t, []string{"Cy", "Al", "Bea"}, r.Names)
}

func TestFor_VanDriver(t *testing.T) {
	empty := For(&model.EventRequest{}, model.RoleVanDriver)
	assert.Equal(t, 0, empty.Count())

	er := &model.EventRequest{AssignedVanDriverID: "custom-1-Van-Man", CustomVanDriverName: "Van Man"}
	r := For(er, model.RoleVanDriver)
	assert.Equal(t, []string{"custom-1-Van-Man"}, r.IDs)
	assert.Equal(t, "Van Man", r.Details["custom-1-Van-Man"].Name)
}

func TestRoster_AddRemoveVolunteer(t *testing.T) {
	er := &model.EventRequest{
		AssignedVolunteerIDs: []string{"10"},
		VolunteerDetails:     map[string]model.AssignmentDetail{"10": {Name: "Val"}},
		VolunteerAssignments: []string{"Val"},
	}
	r := For(er, model.RoleVolunteer)

	r.Add("11", model.AssignmentDetail{Name: "Wes"})
	assert.Equal(t, []string{"10", "11"}, r.IDs)
	assert.Equal(t, []string{"Val", "Wes"}, r.Names)

	assert.True(t, r.Remove("10"))
	assert.Equal(t, []string{"11"}, r.IDs)
	assert.NotContains(t, r.Details, "10")
	assert.Equal(t, []string{"Wes"}, r.Names)

	assert.False(t, r.Remove("10"))
}

func TestRoster_RemovePrunesIdentifierFromNames(t *testing.T) {
	er := &model.EventRequest{
		SpeakerDetails:     map[string]model.AssignmentDetail{"user_1": {}},
		SpeakerAssignments: []string{"user_1", "Other"},
	}
	r := For(er, model.RoleSpeaker)

	require.True(t, r.Remove("user_1"))
	assert.Equal(t, []string{"Other"}, r.Names)
	assert.Empty(t, r.Details)
}

func TestRoster_Rekey(t *testing.T) {
	er := &model.EventRequest{
		AssignedVolunteerIDs: []string{"1", "custom-5-Old-Name", "2"},
		VolunteerDetails: map[string]model.AssignmentDetail{
			"custom-5-Old-Name": {Name: "Old Name", AssignedBy: "admin"},
		},
		VolunteerAssignments: []string{"Old Name"},
	}
	r := For(er, model.RoleVolunteer)

	ok := r.Rekey("custom-5-Old-Name", "custom-5-New-Name", "New Name")
	require.True(t, ok)

	assert.Equal(t, []string{"1", "custom-5-New-Name", "2"}, r.IDs)
	assert.Equal(t, "New Name", r.Details["custom-5-New-Name"].Name)
	assert.Equal(t, "admin", r.Details["custom-5-New-Name"].AssignedBy)
	assert.NotContains(t, r.Details, "custom-5-Old-Name")
	assert.Equal(t, []string{"New Name"}, r.Names)

	assert.False(t, r.Rekey("missing", "x", "X"))
}

func TestRoster_PatchShapes(t *testing.T) {
	er := &model.EventRequest{}

	driver := For(er, model.RoleDriver)
	driver.Add("1", model.AssignmentDetail{Name: "Ann"})
	var update model.EventRequestUpdate
	driver.Patch(&update)
	assert.Equal(t, []string{"assignedDriverIds", "driverDetails"}, update.Fields())

	speaker := For(er, model.RoleSpeaker)
	speaker.Add("2", model.AssignmentDetail{Name: "Sam"})
	update = model.EventRequestUpdate{}
	speaker.Patch(&update)
	assert.Equal(t, []string{"speakerDetails", "speakerAssignments"}, update.Fields())
	assert.Equal(t, []string{"Sam"}, *update.SpeakerAssignments)

	van := For(er, model.RoleVanDriver)
	van.Add("custom-9-Van-Man", model.AssignmentDetail{Name: "Van Man"})
	update = model.EventRequestUpdate{}
	van.Patch(&update)
	assert.Equal(t, "custom-9-Van-Man", *update.AssignedVanDriverID)
	assert.Equal(t, "Van Man", *update.CustomVanDriverName)
}

func TestDecodeDetails_Shapes(t *testing.T) {
	tests := []struct {
		name string
		data string
		want map[string]string // id -> name
	}{
		{"empty", ``, map[string]string{}},
		{"null", `null`, map[string]string{}},
		{"canonical", `{"1":{"name":"Ann","selfAssigned":true}}`, map[string]string{"1": "Ann"}},
		{"id to name", `{"1":"Ann","2":"Bob"}`, map[string]string{"1": "Ann", "2": "Bob"}},
		{"array of objects", `[{"driverId":"1","name":"Ann"},{"id":2,"name":"Bob"},{"name":"no id"}]`, map[string]string{"1": "Ann", "2": "Bob"}},
		{"array of ids", `["1","2"]`, map[string]string{"1": "", "2": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDetails([]byte(tt.data))
			require.NoError(t, err)
			names := make(map[string]string, len(got))
			for id, d := range got {
				names[id] = d.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestDecodeDetails_InvalidJSON(t *testing.T) {
	_, err := DecodeDetails([]byte(`{not json`))
	assert.Error(t, err)
}

func TestEncodeDecodeDetails_RoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	details := map[string]model.AssignmentDetail{
		"user_1": {Name: "Ann", AssignedAt: at, AssignedBy: "user_1", SelfAssigned: true},
	}

	data, err := EncodeDetails(details)
	require.NoError(t, err)

	decoded, err := DecodeDetails(data)
	require.NoError(t, err)
	assert.Equal(t, "Ann", decoded["user_1"].Name)
	assert.True(t, decoded["user_1"].SelfAssigned)
	assert.True(t, at.Equal(decoded["user_1"].AssignedAt))

	empty, err := EncodeDetails(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}
