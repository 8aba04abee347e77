package directory

import "time"

// Role classifies a directory user.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User is an identity record. Users are deactivated rather than deleted.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	StudentID    *string   `json:"student_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
