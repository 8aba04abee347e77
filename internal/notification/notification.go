package notification

import "time"

// Type classifies a notification for inbox rendering.
type Type string

const (
	TypeApprovalRequest Type = "APPROVAL_REQUEST"
	TypeSuccess         Type = "SUCCESS"
	TypeError           Type = "ERROR"
	TypeWarning         Type = "WARNING"
	TypeInfo            Type = "INFO"
	TypeReminder        Type = "REMINDER"
)

// Notification is one persisted inbox entry for one recipient.
type Notification struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           Type      `json:"type"`
	UserID         int64     `json:"user_id"`
	EventID        *int64    `json:"event_id,omitempty"`
	IsRead         bool      `json:"is_read"`
	ActionRequired bool      `json:"action_required"`
	CreatedAt      time.Time `json:"created_at"`
}
