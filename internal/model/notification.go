package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority levels accepted at the boundary. "low" appears in some upstream
// docs but has never been accepted by the enforced pattern, so it is
// rejected here.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationEvent is an inbound status/alert message, immutable once
// stored. Timestamp is the logical event time (caller-supplied or filled at
// ingestion); StoredAt is always the server-side persistence time.
type NotificationEvent struct {
	ID               uuid.UUID              `json:"notification_id"`
	NotificationType string                 `json:"notification_type"`
	Source           string                 `json:"source"`
	Payload          map[string]interface{} `json:"payload"`
	Priority         string                 `json:"priority"`
	Timestamp        time.Time              `json:"timestamp"`
	ReferenceID      string                 `json:"reference_id,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	StoredAt         time.Time              `json:"stored_at"`

	// Seq is the insertion sequence, used only as the pagination
	// tie-break for events sharing a stored_at timestamp.
	Seq int64 `json:"-"`
}

// StorageReceipt confirms a successful insert.
type StorageReceipt struct {
	NotificationID   uuid.UUID `json:"notification_id"`
	NotificationType string    `json:"notification_type"`
	Source           string    `json:"source"`
	StoredAt         time.Time `json:"stored_at"`
}

// CreateNotificationRequest is the POST /notifications body.
type CreateNotificationRequest struct {
	NotificationType string                 `json:"notification_type" validate:"required,min=1,max=100"`
	Source           string                 `json:"source" validate:"required,min=1,max=100"`
	Payload          map[string]interface{} `json:"payload" validate:"required"`
	Priority         string                 `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	Timestamp        string                 `json:"timestamp" validate:"omitempty"`
	ReferenceID      string                 `json:"reference_id" validate:"omitempty,max=200"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// ToEvent converts a validated request into a NotificationEvent. The
// timestamp string, when present, must already have been checked with
// ParseTimestamp.
func (r *CreateNotificationRequest) ToEvent() *NotificationEvent {
	priority := r.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	event := &NotificationEvent{
		NotificationType: r.NotificationType,
		Source:           r.Source,
		Payload:          r.Payload,
		Priority:         priority,
		ReferenceID:      r.ReferenceID,
		Metadata:         r.Metadata,
	}
	if ts, err := ParseTimestamp(r.Timestamp); err == nil {
		event.Timestamp = ts
	}
	return event
}

// ParseTimestamp parses a caller-supplied event time. An empty string is
// valid and yields the zero time; the store fills it at ingestion.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
