package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// AuditTrailStore defines the database operations needed to show history
type AuditTrailStore interface {
	db.EventRequestReader
	db.AuditStore
}

// AuditTrail returns every recorded change to event request id, oldest first
func AuditTrail(ctx context.Context, store AuditTrailStore, logger *zap.Logger, id int) ([]db.AuditEntry, error) {
	// Fail with ErrNotFound for unknown requests rather than an empty history
	if _, err := store.GetEventRequest(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to fetch event request: %w", err)
	}

	entries, err := store.ListAuditEntries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}

	logger.Debug("Audit trail loaded", zap.Int("event_request_id", id), zap.Int("entries", len(entries)))
	return entries, nil
}
