package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
		assigned_driver_ids, driver_details, speaker_details, speaker_assignments,
		assigned_volunteer_ids, volunteer_details, volunteer_assignments,
		assigned_van_driver_id, custom_van_driver_name,
		version
	FROM event_requests`

type scanner interface {
	Scan(dest ...any) error
}

func scanEventRequest(row scanner) (*model.EventRequest, error) {
	var er model.EventRequest
	var status string
	var rosters db.EncodedRosters
	var dates [7]sql.NullString

	err := row.Scan(
		&er.ID, &status,
		&er.OrganizationName, &er.Department, &er.FirstName, &er.LastName, &er.Email, &er.Phone,
		&er.EventAddress, &er.Notes, &er.DeclineReason,
		&dates[0], &dates[1], &dates[2], &dates[3], &dates[4], &dates[5], &dates[6],
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

	targets := []**time.Time{
		&er.DesiredEventDate, &er.ScheduledEventDate, &er.CreatedAt, &er.StatusChangedAt,
		&er.ToolkitSentDate, &er.CallScheduledDate, &er.LastFollowUpDate,
	}
	for i, target := range targets {
		if *target, err = parseTime(dates[i]); err != nil {
			return nil, err
		}
	}

	er.Status = model.Status(status)
	if err := rosters.DecodeInto(&er); err != nil {
		return nil, err
	}
	return &er, nil
}

// ListEventRequests retrieves all event requests ordered by ID
func (d *DB) ListEventRequests(ctx context.Context) ([]model.EventRequest, error) {
	rows, err := d.conn.QueryContext(ctx, selectEventRequest+` ORDER BY id`)
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
	er, err := scanEventRequest(d.conn.QueryRowContext(ctx, selectEventRequest+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
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

	if er.CreatedAt == nil {
		now := time.Now().UTC()
		er.CreatedAt = &now
	}
	if er.Status == "" {
		er.Status = model.StatusNew
	}

	res, err := d.conn.ExecContext(ctx, `
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
			assigned_van_driver_id, custom_van_driver_name,
			version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`,
		string(er.Status),
		er.OrganizationName, er.Department, er.FirstName, er.LastName, er.Email, er.Phone,
		er.EventAddress, er.Notes, er.DeclineReason,
		formatTime(er.DesiredEventDate), formatTime(er.ScheduledEventDate), formatTime(er.CreatedAt), formatTime(er.StatusChangedAt),
		formatTime(er.ToolkitSentDate), formatTime(er.CallScheduledDate), formatTime(er.LastFollowUpDate),
		er.TSPContact, er.TSPContactAssigned, er.AdditionalContact1, er.AdditionalContact2,
		nullableInt(er.DriversNeeded), nullableInt(er.SpeakersNeeded), nullableInt(er.VolunteersNeeded), er.VanDriverNeeded,
		rosters.AssignedDriverIDs, rosters.DriverDetails, rosters.SpeakerDetails, rosters.SpeakerAssignments,
		rosters.AssignedVolunteerIDs, rosters.VolunteerDetails, rosters.VolunteerAssignments,
		er.AssignedVanDriverID, er.CustomVanDriverName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted event request id: %w", err)
	}
	er.ID = int(id)
	er.Version = 1
	return nil
}

// UpdateEventRequest applies update inside a transaction, checks the expected
// version and writes the audit entry alongside it
func (d *DB) UpdateEventRequest(ctx context.Context, id int, update *model.EventRequestUpdate, entry db.AuditEntry) (*model.EventRequest, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	er, err := scanEventRequest(tx.QueryRowContext(ctx, selectEventRequest+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
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

	res, err := tx.ExecContext(ctx, `
		UPDATE event_requests SET
			status = ?,
			status_changed_at = ?,
			scheduled_event_date = ?,
			decline_reason = ?,
			assigned_driver_ids = ?,
			driver_details = ?,
			speaker_details = ?,
			speaker_assignments = ?,
			assigned_volunteer_ids = ?,
			volunteer_details = ?,
			volunteer_assignments = ?,
			assigned_van_driver_id = ?,
			custom_van_driver_name = ?,
			version = ?
		WHERE id = ? AND version = ?
	`,
		string(er.Status), formatTime(er.StatusChangedAt), formatTime(er.ScheduledEventDate), er.DeclineReason,
		rosters.AssignedDriverIDs, rosters.DriverDetails, rosters.SpeakerDetails, rosters.SpeakerAssignments,
		rosters.AssignedVolunteerIDs, rosters.VolunteerDetails, rosters.VolunteerAssignments,
		er.AssignedVanDriverID, er.CustomVanDriverName, er.Version,
		id, update.ExpectedVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event request %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("failed to update event request %d: %w", id, db.ErrVersionConflict)
	}

	entry.EventRequestID = id
	entry.Version = er.Version
	_, err = tx.ExecContext(ctx, `
		INSERT INTO event_request_audit (id, event_request_id, action, fields, from_status, to_status, changed_by, changed_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.EventRequestID, entry.Action, db.JoinFields(entry.Fields),
		entry.FromStatus, entry.ToStatus, entry.ChangedBy, entry.ChangedAt.UTC().Format(timeLayout), entry.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to insert audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return er, nil
}

// ListAuditEntries retrieves the audit trail of one event request, oldest first
func (d *DB) ListAuditEntries(ctx context.Context, eventRequestID int) ([]db.AuditEntry, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, event_request_id, action, fields, from_status, to_status, changed_by, changed_at, version
		FROM event_request_audit
		WHERE event_request_id = ?
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
		var changedAt sql.NullString
		if err := rows.Scan(&e.ID, &e.EventRequestID, &e.Action, &fields, &e.FromStatus, &e.ToStatus, &e.ChangedBy, &changedAt, &e.Version); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		at, err := parseTime(changedAt)
		if err != nil {
			return nil, err
		}
		if at != nil {
			e.ChangedAt = *at
		}
		e.Fields = db.SplitFields(fields)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
