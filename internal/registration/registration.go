package registration

import "time"

// RegStatus is a registration's state. Waitlisted exists for data
// compatibility; waitlist promotion is not implemented.
type RegStatus string

const (
	StatusRegistered RegStatus = "REGISTERED"
	StatusCancelled  RegStatus = "CANCELLED"
	StatusWaitlisted RegStatus = "WAITLISTED"
)

// Registration is a user's reserved slot for an event. At most one exists
// per (event, user) pair.
type Registration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"event_id"`
	UserID       int64     `json:"user_id"`
	Status       RegStatus `json:"status"`
	RegisteredAt time.Time `json:"registered_at"`
	UserName     string    `json:"user_name,omitempty"`
	EventTitle   string    `json:"event_title,omitempty"`
}
