package db

import (
	"context"
	"errors"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

var (
	// ErrNotFound is returned when no event request has the requested ID
	ErrNotFound = errors.New("event request not found")

	// ErrVersionConflict is returned when an update's ExpectedVersion no longer
	// matches the stored record
	ErrVersionConflict = errors.New("event request was modified by someone else")
)

// EventRequestReader defines read access to event requests
type EventRequestReader interface {
	ListEventRequests(ctx context.Context) ([]model.EventRequest, error)
	GetEventRequest(ctx context.Context, id int) (*model.EventRequest, error)
}

// EventRequestStore defines the interface for event request database operations.
// UpdateEventRequest applies the update atomically: it fails with
// ErrVersionConflict if the stored version differs from update.ExpectedVersion,
// otherwise it bumps the version and records the audit entry in the same
// transaction.
type EventRequestStore interface {
	EventRequestReader
	InsertEventRequest(ctx context.Context, er *model.EventRequest) error
	UpdateEventRequest(ctx context.Context, id int, update *model.EventRequestUpdate, entry AuditEntry) (*model.EventRequest, error)
}

// AuditStore defines read access to the audit trail
type AuditStore interface {
	ListAuditEntries(ctx context.Context, eventRequestID int) ([]AuditEntry, error)
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	EventRequestStore
	AuditStore
	RunMigrations(ctx context.Context) error
	Close()
}
