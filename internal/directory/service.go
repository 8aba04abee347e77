package directory

import (
	"context"
	"fmt"
	"strings"

	"campus-events/internal/auth"
	"campus-events/internal/status"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, u *User) error
	ByID(ctx context.Context, id int64) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	All(ctx context.Context) ([]User, error)
	ByRole(ctx context.Context, role Role) ([]User, error)
	ByDepartment(ctx context.Context, department string) ([]User, error)
	Search(ctx context.Context, term string) ([]User, error)
	UpdateProfile(ctx context.Context, u *User) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetPassword(ctx context.Context, id int64, hash string) error
}

// Service owns user identity rules: unique email/student id, credential
// verification, soft deactivation.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateUser carries the fields accepted at sign-up.
type CreateUser struct {
	Name       string
	Email      string
	Password   string
	Role       Role
	Department string
	StudentID  *string
}

// Create registers a new user. Email and student id must be globally unique.
func (s *Service) Create(ctx context.Context, in CreateUser) (*User, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("name, email and password required: %w", status.ErrInvalidFormat)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", in.Role, status.ErrInvalidFormat)
	}
	if taken, err := s.store.ExistsByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("email already exists: %w", status.ErrConflict)
	}
	if in.StudentID != nil {
		if taken, err := s.store.ExistsByStudentID(ctx, *in.StudentID); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("student id already exists: %w", status.ErrConflict)
		}
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Name:         in.Name,
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		Department:   in.Department,
		StudentID:    in.StudentID,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and rejects deactivated accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.ByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, fmt.Errorf("invalid credentials: %w", status.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", status.ErrUnauthorized)
	}
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.ByID(ctx, id)
}

// GetByEmail returns a user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.ByEmail(ctx, strings.ToLower(email))
}

// List returns users, optionally narrowed by role, department or search term.
func (s *Service) List(ctx context.Context, role Role, department, term string) ([]User, error) {
	switch {
	case role != "":
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %q: %w", role, status.ErrInvalidFormat)
		}
		return s.store.ByRole(ctx, role)
	case department != "":
		return s.store.ByDepartment(ctx, department)
	case term != "":
		return s.store.Search(ctx, term)
	default:
		return s.store.All(ctx)
	}
}

// UpdateUser carries profile fields; email and student id changes re-check
// uniqueness.
type UpdateUser struct {
	Name       string
	Email      string
	Department string
	StudentID  *string
}

// Update edits a user's profile.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUser) (*User, error) {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Department != "" {
		u.Department = in.Department
	}
	if in.Email != "" && !strings.EqualFold(in.Email, u.Email) {
		if taken, err := s.store.ExistsByEmail(ctx, strings.ToLower(in.Email)); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("email already exists: %w", status.ErrConflict)
		}
		u.Email = strings.ToLower(in.Email)
	}
	if in.StudentID != nil && (u.StudentID == nil || *in.StudentID != *u.StudentID) {
		if taken, err := s.store.ExistsByStudentID(ctx, *in.StudentID); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("student id already exists: %w", status.ErrConflict)
		}
		u.StudentID = in.StudentID
	}
	if err := s.store.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Deactivate soft-disables an account. The record is never deleted.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.store.SetActive(ctx, id, false)
}

// Activate re-enables an account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.store.SetActive(ctx, id, true)
}

// ChangePassword verifies the current credential before replacing it.
func (s *Service) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, oldPassword) {
		return fmt.Errorf("current password is incorrect: %w", status.ErrUnauthorized)
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.SetPassword(ctx, id, hash)
}
