package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/tsp-event-requests/internal/config"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
	"github.com/jakechorley/tsp-event-requests/pkg/db"
)

// FollowUp is an in-process event request whose organizer is due a follow-up
type FollowUp struct {
	EventRequest model.EventRequest
	// Anchor is the toolkit-sent date or the last follow-up, whichever is later
	Anchor time.Time
	DueAt  time.Time
}

// FollowUpsDue lists in-process requests with a toolkit sent whose next
// follow-up, on the configured cadence from the anchor, falls on or before asOf.
// Results are ordered by due date, oldest first.
func FollowUpsDue(ctx context.Context, store db.EventRequestReader, cfg *config.Config, logger *zap.Logger, asOf time.Time) ([]FollowUp, error) {
	ruleStr := config.DefaultFollowUpRRule
	if cfg != nil && cfg.FollowUp.RRule != "" {
		ruleStr = cfg.FollowUp.RRule
	}

	rule, err := rrule.StrToRRule(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse follow-up rrule: %w", err)
	}

	all, err := store.ListEventRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event requests: %w", err)
	}

	var due []FollowUp
	for _, er := range all {
		if er.Status != model.StatusInProcess || er.ToolkitSentDate == nil {
			continue
		}

		anchor := *er.ToolkitSentDate
		if er.LastFollowUpDate != nil && er.LastFollowUpDate.After(anchor) {
			anchor = *er.LastFollowUpDate
		}

		rule.DTStart(anchor)
		next := rule.After(anchor, false)
		if next.IsZero() {
			// Cadence has run out (COUNT or UNTIL reached)
			continue
		}
		if next.After(asOf) {
			continue
		}

		due = append(due, FollowUp{EventRequest: er, Anchor: anchor, DueAt: next})
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueAt.Before(due[j].DueAt)
	})

	logger.Debug("Follow-ups computed",
		zap.String("rrule", ruleStr),
		zap.Time("as_of", asOf),
		zap.Int("due", len(due)))

	return due, nil
}
