package db

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/tsp-event-requests/pkg/core/model"
)

// AuditEntry records a single applied update
type AuditEntry struct {
	ID             string    `json:"id"`
	EventRequestID int       `json:"eventRequestId"`
	Action         string    `json:"action"`
	Fields         []string  `json:"fields"`
	FromStatus     string    `json:"fromStatus"`
	ToStatus       string    `json:"toStatus"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`

	// Version is the record version after the update, set by the store
	Version int `json:"version"`
}

// NewAuditEntry builds the audit entry for update as applied to er
func NewAuditEntry(er *model.EventRequest, action string, update *model.EventRequestUpdate, at time.Time) AuditEntry {
	entry := AuditEntry{
		ID:             uuid.New().String(),
		EventRequestID: er.ID,
		Action:         action,
		Fields:         update.Fields(),
		FromStatus:     string(er.Status),
		ToStatus:       string(er.Status),
		ChangedBy:      update.ChangedBy,
		ChangedAt:      at.UTC(),
	}
	if update.Status != nil {
		entry.ToStatus = string(*update.Status)
	}
	return entry
}

// JoinFields encodes the changed field names for storage
func JoinFields(fields []string) string {
	return strings.Join(fields, ",")
}

// SplitFields decodes changed field names read from storage
func SplitFields(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
