package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is an event's position in the approval lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions. Rejected events
// are not resubmitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Category classifies an event.
type Category string

const (
	CategoryAcademic    Category = "ACADEMIC"
	CategoryCareer      Category = "CAREER"
	CategorySocial      Category = "SOCIAL"
	CategorySports      Category = "SPORTS"
	CategoryOrientation Category = "ORIENTATION"
	CategoryOther       Category = "OTHER"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryCareer, CategorySocial, CategorySports, CategoryOrientation, CategoryOther:
		return true
	}
	return false
}

// Event is a schedulable campus activity owned by an organizer and subject
// to the approval workflow.
type Event struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	EventDate        time.Time        `json:"event_date"`
	Location         string           `json:"location"`
	Capacity         int              `json:"capacity"`
	Budget           *decimal.Decimal `json:"budget,omitempty"`
	Category         Category         `json:"category"`
	Status           Status           `json:"status"`
	OrganizerID      int64            `json:"organizer_id"`
	OrganizerName    string           `json:"organizer_name,omitempty"`
	ApprovedBy       *int64           `json:"approved_by,omitempty"`
	ApprovedByName   *string          `json:"approved_by_name,omitempty"`
	ApprovalComments string           `json:"approval_comments,omitempty"`
	ApprovedAt       *time.Time       `json:"approved_at,omitempty"`
	RegisteredCount  int              `json:"registered_count"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
