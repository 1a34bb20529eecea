package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

const selectEventRequest = `
	SELECT id, status,
		organization_name, department, first_name, last_name, email, phone,
		event_address, notes, decline_reason,
		desired_event_date, scheduled_event_date, created_at, status_changed_at,
		toolkit_sent_date, call_scheduled_date, last_follow_up_date,
		tsp_contact, tsp_contact_assigned, additional_contact_1, additional_contact_2,
		drivers_needed, speakers_needed, volunteers_needed, van_driver_needed,
		assigned_driver_ids, driver_details::text, speaker_details::text, speaker_assignments,
		assigned_volunteer_ids, volunteer_details::text, volunteer_assignments,
		assigned_van_driver_id, custom_van_driver_name,
		version
	FROM event_requests`

func scanEventRequest(row pgx.Row) (*model.EventRequest, error) {
	var er model.EventRequest
	var status string
	var rosters db.EncodedRosters

	err := row.Scan(
		&er.ID, &status,
		&er.OrganizationName, &er.Department, &er.FirstName, &er.LastName, &er.Email, &er.Phone,
		&er.EventAddress, &er.Notes, &er.DeclineReason,
		&er.DesiredEventDate, &er.ScheduledEventDate, &er.CreatedAt, &er.StatusChangedAt,
		&er.ToolkitSentDate, &er.CallScheduledDate, &er.LastFollowUpDate,
		&er.TSPContact, &er.TSPContactAssigned, &er.AdditionalContact1, &er.AdditionalContact2,
		&er.DriversNeeded, &er.SpeakersNeeded, &er.VolunteersNeeded, &er.VanDriverNeeded,
		&rosters.AssignedDriverIDs, &rosters.DriverDetails, &rosters.SpeakerDetails, &rosters.SpeakerAssignments,
		&rosters.AssignedVolunteerIDs, &rosters.VolunteerDetails, &rosters.VolunteerAssignments,
		&er.AssignedVanDriverID, &er.CustomVanDriverName,
		&er.Version,
	)
	if err != nil {
		return nil, err
	}

	er.Status = model.Status(status)
	toUTC(er.DesiredEventDate, er.ScheduledEventDate, er.CreatedAt, er.StatusChangedAt,
		er.ToolkitSentDate, er.CallScheduledDate, er.LastFollowUpDate)
	if err := rosters.DecodeInto(&er); err != nil {
		return nil, err
	}
	return &er, nil
}

// toUTC moves scanned timestamps into UTC. pgx decodes timestamptz in the
// host's zone, which would shift calendar dates on hosts west of UTC.
func toUTC(times ...*time.Time) {
	for _, t := range times {
		if t != nil {
			*t = t.UTC()
		}
	}
}

// ListEventRequests retrieves all event requests ordered by ID
func (d *DB) ListEventRequests(ctx context.Context) ([]model.EventRequest, error) {
	rows, err := d.pool.Query(ctx, selectEventRequest+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query event requests: %w", err)
	}
	defer rows.Close()

	var requests []model.EventRequest
	for rows.Next() {
		er, err := scanEventRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event request: %w", err)
		}
		requests = append(requests, *er)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event requests: %w", err)
	}

	return requests, nil
}

// GetEventRequest retrieves a single event request
func (d *DB) GetEventRequest(ctx context.Context, id int) (*model.EventRequest, error) {
	er, err := scanEventRequest(d.pool.QueryRow(ctx, selectEventRequest+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get event request %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event request %d: %w", id, err)
	}
	return er, nil
}

// InsertEventRequest inserts a new event request, setting its ID and version
func (d *DB) InsertEventRequest(ctx context.Context, er *model.EventRequest) error {
	rosters, err := db.EncodeRosters(er)
	if err != nil {
		return fmt.Errorf("failed to insert event request: %w", err)
	}

	err = d.pool.QueryRow(ctx, `
		INSERT INTO event_requests (
			status,
			organization_name, department, first_name, last_name, email, phone,
			event_address, notes, decline_reason,
			desired_event_date, scheduled_event_date, created_at, status_changed_at,
			toolkit_sent_date, call_scheduled_date, last_follow_up_date,
			tsp_contact, tsp_contact_assigned, additional_contact_1, additional_contact_2,
			drivers_needed, speakers_needed, volunteers_needed, van_driver_needed,
			assigned_driver_ids, driver_details, speaker_details, speaker_assignments,
			assigned_volunteer_ids, volunteer_details, volunteer_assignments,
			assigned_van_driver_id, custom_van_driver_name
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, COALESCE($13, NOW()), $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25,
			$26, $27::jsonb, $28::jsonb, $29, $30, $31::jsonb, $32, $33, $34
		)
		RETURNING id, created_at, version
	`,
		string(er.Status),
		er.OrganizationName, er.Department, er.FirstName, er.LastName, er.Email, er.Phone,
		er.EventAddress, er.Notes, er.DeclineReason,
		er.DesiredEventDate, er.ScheduledEventDate, er.CreatedAt, er.StatusChangedAt,
		er.ToolkitSentDate, er.CallScheduledDate, er.LastFollowUpDate,
		er.TSPContact, er.TSPContactAssigned, er.AdditionalContact1, er.AdditionalContact2,
		er.DriversNeeded, er.SpeakersNeeded, er.VolunteersNeeded, er.VanDriverNeeded,
		rosters.AssignedDriverIDs, rosters.DriverDetails, rosters.SpeakerDetails, rosters.SpeakerAssignments,
		rosters.AssignedVolunteerIDs, rosters.VolunteerDetails, rosters.VolunteerAssignments,
		er.AssignedVanDriverID, er.CustomVanDriverName,
	).Scan(&er.ID, &er.CreatedAt, &er.Version)
	if err != nil {
		return fmt.Errorf("failed to insert event request: %w", err)
	}
	toUTC(er.CreatedAt)
	return nil
}

// UpdateEventRequest applies update under a row lock, checks the expected
// version and writes the audit entry in the same transaction
func (d *DB) UpdateEventRequest(ctx context.Context, id int, update *model.EventRequestUpdate, entry db.AuditEntry) (*model.EventRequest, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	er, err := scanEventRequest(tx.QueryRow(ctx, selectEventRequest+` WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update event request %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event request %d: %w", id, err)
	}
	if er.Version != update.ExpectedVersion {
		return nil, fmt.Errorf("failed to update event request %d (have version %d, stored %d): %w",
			id, update.ExpectedVersion, er.Version, db.ErrVersionConflict)
	}

	update.Apply(er)
	er.Version++

	rosters, err := db.EncodeRosters(er)
	if err != nil {
		return nil, fmt.Errorf("failed to update event request %d: %w", id, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE event_requests SET
			status = $2,
			status_changed_at = $3,
			scheduled_event_date = $4,
			decline_reason = $5,
			assigned_driver_ids = $6,
			driver_details = $7::jsonb,
			speaker_details = $8::jsonb,
			speaker_assignments = $9,
			assigned_volunteer_ids = $10,
			volunteer_details = $11::jsonb,
			volunteer_assignments = $12,
			assigned_van_driver_id = $13,
			custom_van_driver_name = $14,
			version = $15
		WHERE id = $1
	`,
		id, string(er.Status), er.StatusChangedAt, er.ScheduledEventDate, er.DeclineReason,
		rosters.AssignedDriverIDs, rosters.DriverDetails, rosters.SpeakerDetails, rosters.SpeakerAssignments,
		rosters.AssignedVolunteerIDs, rosters.VolunteerDetails, rosters.VolunteerAssignments,
		er.AssignedVanDriverID, er.CustomVanDriverName, er.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event request %d: %w", id, err)
	}

	entry.EventRequestID = id
	entry.Version = er.Version
	_, err = tx.Exec(ctx, `
		INSERT INTO event_request_audit (id, event_request_id, action, fields, from_status, to_status, changed_by, changed_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.EventRequestID, entry.Action, db.JoinFields(entry.Fields),
		entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.ChangedAt, entry.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return er, nil
}

// ListAuditEntries retrieves the audit trail of one event request, oldest first
func (d *DB) ListAuditEntries(ctx context.Context, eventRequestID int) ([]db.AuditEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, event_request_id, action, fields, from_status, to_status, changed_by, changed_at, version
		FROM event_request_audit
		WHERE event_request_id = $1
		ORDER BY version
	`, eventRequestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []db.AuditEntry
	for rows.Next() {
		var e db.AuditEntry
		var fields string
		if err := rows.Scan(&e.ID, &e.EventRequestID, &e.Action, &fields, &e.FromStatus, &e.ToStatus, &e.ChangedBy, &e.ChangedAt, &e.Version); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Fields = db.SplitFields(fields)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
