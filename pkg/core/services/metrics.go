package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// assignmentOutcomes counts assignment requests by operation, role and
	// result ("accepted" or the rejection reason)
	assignmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_requests_assignment_outcomes_total",
		Help: "Assignment requests by operation, role and result",
	}, []string{"operation", "role", "result"})

	// statusTransitions counts requested status changes
	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_requests_status_transitions_total",
		Help: "Status transition requests by from, to and result",
	}, []string{"from", "to", "result"})

	// writeConflicts counts updates retried because the record changed underneath them
	writeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_requests_write_conflicts_total",
		Help: "Event request updates retried after a version conflict",
	})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "event_requests_submissions_total",
		Help: "Event request submissions by result",
	}, []string{"result"})
)

func resultLabel(accepted bool, reason string) string {
	if accepted {
		return "accepted"
	}
	if reason == "" {
		return "rejected"
	}
	return reason
}
