package db

import (
	"fmt"

	"github.com/jakechorley/tsp-event-requests/pkg/core/identifier"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/core/roster"
)

// EncodedRosters holds the assignment columns as stored. ID and name lists are
// JSON arrays, detail maps are JSON objects. Older rows may hold any of the
// legacy list or detail shapes; decoding tolerates all of them.
type EncodedRosters struct {
	AssignedDriverIDs    string
	DriverDetails        string
	SpeakerDetails       string
	SpeakerAssignments   string
	AssignedVolunteerIDs string
	VolunteerDetails     string
	VolunteerAssignments string
}

// EncodeRosters converts the assignment fields of er to their stored form
func EncodeRosters(er *model.EventRequest) (EncodedRosters, error) {
	driverDetails, err := roster.EncodeDetails(er.DriverDetails)
	if err != nil {
		return EncodedRosters{}, fmt.Errorf("failed to encode driver details: %w", err)
	}
	speakerDetails, err := roster.EncodeDetails(er.SpeakerDetails)
	if err != nil {
		return EncodedRosters{}, fmt.Errorf("failed to encode speaker details: %w", err)
	}
	volunteerDetails, err := roster.EncodeDetails(er.VolunteerDetails)
	if err != nil {
		return EncodedRosters{}, fmt.Errorf("failed to encode volunteer details: %w", err)
	}

	return EncodedRosters{
		AssignedDriverIDs:    identifier.EncodeList(er.AssignedDriverIDs),
		DriverDetails:        string(driverDetails),
		SpeakerDetails:       string(speakerDetails),
		SpeakerAssignments:   identifier.EncodeList(er.SpeakerAssignments),
		AssignedVolunteerIDs: identifier.EncodeList(er.AssignedVolunteerIDs),
		VolunteerDetails:     string(volunteerDetails),
		VolunteerAssignments: identifier.EncodeList(er.VolunteerAssignments),
	}, nil
}

// DecodeInto sets the assignment fields of er from their stored form
func (e EncodedRosters) DecodeInto(er *model.EventRequest) error {
	var err error
	if er.DriverDetails, err = roster.DecodeDetails([]byte(e.DriverDetails)); err != nil {
		return fmt.Errorf("failed to decode driver details for event request %d: %w", er.ID, err)
	}
	if er.SpeakerDetails, err = roster.DecodeDetails([]byte(e.SpeakerDetails)); err != nil {
		return fmt.Errorf("failed to decode speaker details for event request %d: %w", er.ID, err)
	}
	if er.VolunteerDetails, err = roster.DecodeDetails([]byte(e.VolunteerDetails)); err != nil {
		return fmt.Errorf("failed to decode volunteer details for event request %d: %w", er.ID, err)
	}

	er.AssignedDriverIDs = identifier.NormalizeList(e.AssignedDriverIDs)
	er.SpeakerAssignments = identifier.NormalizeList(e.SpeakerAssignments)
	er.AssignedVolunteerIDs = identifier.NormalizeList(e.AssignedVolunteerIDs)
	er.VolunteerAssignments = identifier.NormalizeList(e.VolunteerAssignments)
	return nil
}
