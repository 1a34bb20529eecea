package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/query"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// ListResult is one page of event requests plus the per-filter counts
type ListResult struct {
	query.Result
	Counts map[string]int
}

// ListEventRequests runs the query pipeline over every stored event request.
// A zero page size uses the configured default; a negative one returns everything.
func ListEventRequests(ctx context.Context, store db.EventRequestReader, cfg *config.Config, logger *zap.Logger, params query.Params, viewer *query.Viewer) (*ListResult, error) {
	if params.PageSize == 0 {
		params.PageSize = config.DefaultPageSize
		if cfg != nil && cfg.Query.DefaultPageSize > 0 {
			params.PageSize = cfg.Query.DefaultPageSize
		}
	}

	logger.Debug("Listing event requests",
		zap.String("search", params.SearchQuery),
		zap.String("status", params.StatusFilter),
		zap.String("sort", string(params.SortKey)),
		zap.Int("page", params.Page),
		zap.Int("page_size", params.PageSize))

	all, err := store.ListEventRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event requests: %w", err)
	}

	result := query.Run(all, params, viewer)

	logger.Debug("Event requests listed",
		zap.Int("total", len(all)),
		zap.Int("matched", result.Total),
		zap.Int("returned", len(result.Items)))

	return &ListResult{
		Result: result,
		Counts: query.CountByStatus(all, viewer),
	}, nil
}
