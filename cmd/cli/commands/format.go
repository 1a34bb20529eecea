package commands

import (
	"fmt"
	"time"

	"github.com/jakechorley/tsp-event-requests/pkg/core/capacity"
	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

const displayDateLayout = "Mon Jan 02 2006"

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(displayDateLayout)
}

// eventDate is the scheduled date once set, otherwise the desired date
func eventDate(er *model.EventRequest) *time.Time {
	if er.ScheduledEventDate != nil {
		return er.ScheduledEventDate
	}
	return er.DesiredEventDate
}

// stateColor picks the color for a fill state: short is red, over is yellow,
// full is green, unconstrained is dim
func stateColor(state capacity.FillState, green, yellow, red, dim string) string {
	switch state {
	case capacity.UnderStaffed:
		return red
	case capacity.OverStaffed:
		return yellow
	case capacity.FullyStaffed:
		return green
	default:
		return dim
	}
}

// formatGap renders "assigned/needed (message)", or just the count when no
// requirement was given
func formatGap(g capacity.Gap) string {
	if g.State == capacity.Unconstrained {
		return fmt.Sprintf("%d (%s)", g.Assigned, g.Message())
	}
	return fmt.Sprintf("%d/%d (%s)", g.Assigned, *g.Needed, g.Message())
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
