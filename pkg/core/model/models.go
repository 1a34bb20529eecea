package model

import "time"

type Status string

const (
	StatusNew       Status = "new"
	StatusInProcess Status = "in_process"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusNew,
	StatusInProcess,
	StatusScheduled,
	StatusCompleted,
	StatusDeclined,
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProcess, StatusScheduled, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// IsActionable reports whether work can still happen on an event in this status
func (s Status) IsActionable() bool {
	return s != StatusCompleted && s != StatusDeclined
}

type Role string

const (
	RoleDriver    Role = "driver"
	RoleSpeaker   Role = "speaker"
	RoleVolunteer Role = "volunteer"
	RoleVanDriver Role = "van_driver"
)

// AllRoles lists every staffed role
var AllRoles = []Role{RoleDriver, RoleSpeaker, RoleVolunteer, RoleVanDriver}

func (r Role) IsValid() bool {
	switch r {
	case RoleDriver, RoleSpeaker, RoleVolunteer, RoleVanDriver:
		return true
	}
	return false
}

// AssignmentDetail describes how and when someone was assigned to a role
type AssignmentDetail struct {
	Name         string    `json:"name"`
	AssignedAt   time.Time `json:"assignedAt"`
	AssignedBy   string    `json:"assignedBy"`
	SelfAssigned bool      `json:"selfAssigned"`
}

// Person is an entry in one of the user, driver or volunteer directories
type Person struct {
	ID          string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
}

// FullName returns the display name if set, otherwise first and last name
func (p Person) FullName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// EventRequest is a single sandwich-delivery event and its organizing workflow
type EventRequest struct {
	ID     int    `json:"id"`
	Status Status `json:"status"`

	// Organizer and contact details (display only)
	OrganizationName string `json:"organizationName"`
	Department       string `json:"department"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	EventAddress     string `json:"eventAddress"`
	Notes            string `json:"notes"`
	DeclineReason    string `json:"declineReason"`

	DesiredEventDate   *time.Time `json:"desiredEventDate"`
	ScheduledEventDate *time.Time `json:"scheduledEventDate"`
	CreatedAt          *time.Time `json:"createdAt"`
	StatusChangedAt    *time.Time `json:"statusChangedAt"`
	ToolkitSentDate    *time.Time `json:"toolkitSentDate"`
	CallScheduledDate  *time.Time `json:"callScheduledDate"`
	LastFollowUpDate   *time.Time `json:"lastFollowUpDate"`

	// TSP-side contacts (user IDs)
	TSPContact         string `json:"tspContact"`
	TSPContactAssigned string `json:"tspContactAssigned"`
	AdditionalContact1 string `json:"additionalContact1"`
	AdditionalContact2 string `json:"additionalContact2"`

	// Required headcounts, nil means not specified
	DriversNeeded    *int `json:"driversNeeded"`
	SpeakersNeeded   *int `json:"speakersNeeded"`
	VolunteersNeeded *int `json:"volunteersNeeded"`
	VanDriverNeeded  bool `json:"vanDriverNeeded"`

	AssignedDriverIDs    []string                    `json:"assignedDriverIds"`
	DriverDetails        map[string]AssignmentDetail `json:"driverDetails"`
	SpeakerDetails       map[string]AssignmentDetail `json:"speakerDetails"`
	SpeakerAssignments   []string                    `json:"speakerAssignments"`
	AssignedVolunteerIDs []string                    `json:"assignedVolunteerIds"`
	VolunteerDetails     map[string]AssignmentDetail `json:"volunteerDetails"`
	VolunteerAssignments []string                    `json:"volunteerAssignments"`
	AssignedVanDriverID  string                      `json:"assignedVanDriverId"`
	CustomVanDriverName  string                      `json:"customVanDriverName"`

	// Version is bumped on every successful update
	Version int `json:"version"`
}
