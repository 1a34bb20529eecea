package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/lifecycle"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// TransitionResult is the decision on a status change and the resulting record
type TransitionResult struct {
	Result       lifecycle.Result
	EventRequest *model.EventRequest
}

// ChangeStatus moves event request id to status to. Strict mode comes from config.
func ChangeStatus(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, to model.Status, opts lifecycle.Options) (*TransitionResult, error) {
	machine := newMachine(cfg)
	return runTransition(ctx, store, cfg, logger, id, "status", func(er *model.EventRequest) lifecycle.Result {
		return machine.Transition(er, to, timeNow(), opts)
	})
}

// PerformAction runs a named lifecycle action such as schedule or reactivate
func PerformAction(ctx context.Context, store db.EventRequestStore, cfg *config.Config, logger *zap.Logger, id int, action lifecycle.Action, opts lifecycle.Options) (*TransitionResult, error) {
	machine := newMachine(cfg)
	return runTransition(ctx, store, cfg, logger, id, string(action), func(er *model.EventRequest) lifecycle.Result {
		return machine.Perform(er, action, timeNow(), opts)
	})
}

func newMachine(cfg *config.Config) *lifecycle.Machine {
	return lifecycle.NewMachine(cfg != nil && cfg.Lifecycle.StrictTransitions)
}

func runTransition(
	ctx context.Context,
	store db.EventRequestStore,
	cfg *config.Config,
	logger *zap.Logger,
	id int,
	action string,
	decide func(er *model.EventRequest) lifecycle.Result,
) (*TransitionResult, error) {
	var result lifecycle.Result
	er, err := updateWithRetry(ctx, store, cfg, logger, id, action, func(er *model.EventRequest) *model.EventRequestUpdate {
		result = decide(er)
		return result.Update
	})
	if err != nil {
		return nil, err
	}

	statusTransitions.WithLabelValues(string(result.From), string(result.To), resultLabel(result.Accepted, "")).Inc()

	switch {
	case !result.Accepted:
		logger.Info("Status change rejected",
			zap.Int("event_request_id", id),
			zap.String("from", string(result.From)),
			zap.String("to", string(result.To)),
			zap.String("message", result.Message))
	case !result.Standard:
		logger.Warn("Non-standard status change accepted",
			zap.Int("event_request_id", id),
			zap.String("from", string(result.From)),
			zap.String("to", string(result.To)))
	default:
		logger.Info("Status changed",
			zap.Int("event_request_id", id),
			zap.String("from", string(result.From)),
			zap.String("to", string(result.To)),
			zap.Bool("reversal", result.Reversal))
	}

	return &TransitionResult{Result: result, EventRequest: er}, nil
}
