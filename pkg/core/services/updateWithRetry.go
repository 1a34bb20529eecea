package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// timeNow is replaced in tests
var timeNow = time.Now

// decideFunc computes the update to write against the current record.
// Returning nil writes nothing.
type decideFunc func(er *model.EventRequest) *model.EventRequestUpdate

// updateWithRetry loads the record, asks decide for an update and writes it.
// When the record changed between the read and the write, the whole cycle is
// repeated against the fresh record, up to the configured number of attempts.
// It returns the stored record after the write, or the record decide saw if
// nothing was written.
func updateWithRetry(
	ctx context.Context,
	store db.EventRequestStore,
	cfg *config.Config,
	logger *zap.Logger,
	id int,
	action string,
	decide decideFunc,
) (*model.EventRequest, error) {
	maxAttempts := config.DefaultMaxWriteAttempts
	if cfg != nil && cfg.Assignment.MaxWriteAttempts > 0 {
		maxAttempts = cfg.Assignment.MaxWriteAttempts
	}

	for attempt := 1; ; attempt++ {
		er, err := store.GetEventRequest(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load event request: %w", err)
		}

		update := decide(er)
		if update == nil || update.IsEmpty() {
			return er, nil
		}

		entry := db.NewAuditEntry(er, action, update, timeNow())
		updated, err := store.UpdateEventRequest(ctx, id, update, entry)
		if err == nil {
			logger.Debug("Event request updated",
				zap.Int("event_request_id", id),
				zap.String("action", action),
				zap.Strings("fields", entry.Fields),
				zap.Int("version", updated.Version))
			return updated, nil
		}

		if !errors.Is(err, db.ErrVersionConflict) || attempt >= maxAttempts {
			return nil, fmt.Errorf("failed to save event request: %w", err)
		}

		writeConflicts.Inc()
		logger.Warn("Event request changed during update, retrying",
			zap.Int("event_request_id", id),
			zap.String("action", action),
			zap.Int("attempt", attempt))
	}
}
