package model

import (
	"maps"
	"slices"
	"time"
)

// EventRequestUpdate is a partial update to a single event request.
// Nil fields are left untouched when the update is applied.
type EventRequestUpdate struct {
	Status             *Status
	StatusChangedAt    *time.Time
	ScheduledEventDate *time.Time
	DeclineReason      *string

	AssignedDriverIDs    *[]string
	DriverDetails        *map[string]AssignmentDetail
	SpeakerDetails       *map[string]AssignmentDetail
	SpeakerAssignments   *[]string
	AssignedVolunteerIDs *[]string
	VolunteerDetails     *map[string]AssignmentDetail
	VolunteerAssignments *[]string
	AssignedVanDriverID  *string
	CustomVanDriverName  *string

	// ExpectedVersion is the version the update was computed against
	ExpectedVersion int

	// ChangedBy identifies who requested the change (may be empty)
	ChangedBy string
}

// Fields returns the names of the fields set on the update, in a stable order
func (u *EventRequestUpdate) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Status != nil, "status")
	add(u.StatusChangedAt != nil, "statusChangedAt")
	add(u.ScheduledEventDate != nil, "scheduledEventDate")
	add(u.DeclineReason != nil, "declineReason")
	add(u.AssignedDriverIDs != nil, "assignedDriverIds")
	add(u.DriverDetails != nil, "driverDetails")
	add(u.SpeakerDetails != nil, "speakerDetails")
	add(u.SpeakerAssignments != nil, "speakerAssignments")
	add(u.AssignedVolunteerIDs != nil, "assignedVolunteerIds")
	add(u.VolunteerDetails != nil, "volunteerDetails")
	add(u.VolunteerAssignments != nil, "volunteerAssignments")
	add(u.AssignedVanDriverID != nil, "assignedVanDriverId")
	add(u.CustomVanDriverName != nil, "customVanDriverName")
	return fields
}

// IsEmpty returns true if the update changes nothing
func (u *EventRequestUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Apply copies every set field of the update onto er.
// Slices and maps are cloned so er never aliases the update.
func (u *EventRequestUpdate) Apply(er *EventRequest) {
	if u.Status != nil {
		er.Status = *u.Status
	}
	if u.StatusChangedAt != nil {
		t := *u.StatusChangedAt
		er.StatusChangedAt = &t
	}
	if u.ScheduledEventDate != nil {
		t := *u.ScheduledEventDate
		er.ScheduledEventDate = &t
	}
	if u.DeclineReason != nil {
		er.DeclineReason = *u.DeclineReason
	}
	if u.AssignedDriverIDs != nil {
		er.AssignedDriverIDs = slices.Clone(*u.AssignedDriverIDs)
	}
	if u.DriverDetails != nil {
		er.DriverDetails = maps.Clone(*u.DriverDetails)
	}
	if u.SpeakerDetails != nil {
		er.SpeakerDetails = maps.Clone(*u.SpeakerDetails)
	}
	if u.SpeakerAssignments != nil {
		er.SpeakerAssignments = slices.Clone(*u.SpeakerAssignments)
	}
	if u.AssignedVolunteerIDs != nil {
		er.AssignedVolunteerIDs = slices.Clone(*u.AssignedVolunteerIDs)
	}
	if u.VolunteerDetails != nil {
		er.VolunteerDetails = maps.Clone(*u.VolunteerDetails)
	}
	if u.VolunteerAssignments != nil {
		er.VolunteerAssignments = slices.Clone(*u.VolunteerAssignments)
	}
	if u.AssignedVanDriverID != nil {
		er.AssignedVanDriverID = *u.AssignedVanDriverID
	}
	if u.CustomVanDriverName != nil {
		er.CustomVanDriverName = *u.CustomVanDriverName
	}
}
