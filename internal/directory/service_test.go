package directory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-events/internal/auth"
	"campus-events/internal/status"
)

type storeStub struct {
	users  map[int64]*User
	nextID int64
}

func newStoreStub() *storeStub { return &storeStub{users: make(map[int64]*User)} }

func (s *storeStub) Insert(_ context.Context, u *User) error {
	s.nextID++
	u.ID = s.nextID
	u.IsActive = true
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *storeStub) ByID(_ context.Context, id int64) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, status.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *storeStub) ByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, status.ErrNotFound)
}

func (s *storeStub) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *storeStub) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	for _, u := range s.users {
		if u.StudentID != nil && *u.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *storeStub) All(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *storeStub) ByRole(_ context.Context, role Role) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *storeStub) ByDepartment(_ context.Context, department string) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if u.Department == department {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *storeStub) Search(_ context.Context, term string) ([]User, error) {
	var out []User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(term)) ||
			strings.Contains(strings.ToLower(u.Email), strings.ToLower(term)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *storeStub) UpdateProfile(_ context.Context, u *User) error {
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("user %d: %w", u.ID, status.ErrNotFound)
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *storeStub) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, status.ErrNotFound)
	}
	u.IsActive = active
	return nil
}

func (s *storeStub) SetPassword(_ context.Context, id int64, hash string) error {
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, status.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func sid(v string) *string { return &v }

func validCreate() CreateUser {
	return CreateUser{
		Name:       "Ana Reyes",
		Email:      "Ana.Reyes@campus.edu",
		Password:   "correct-horse",
		Role:       RoleStudent,
		Department: "CS",
		StudentID:  sid("S-1001"),
	}
}

func TestCreateHashesPasswordAndLowercasesEmail(t *testing.T) {
	svc := NewService(newStoreStub())
	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	assert.Equal(t, "ana.reyes@campus.edu", u.Email)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "correct-horse"))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewService(newStoreStub())
	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	dup := validCreate()
	dup.StudentID = sid("S-1002")
	_, err = svc.Create(context.Background(), dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrConflict)
}

func TestCreateRejectsDuplicateStudentID(t *testing.T) {
	svc := NewService(newStoreStub())
	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	dup := validCreate()
	dup.Email = "other@campus.edu"
	_, err = svc.Create(context.Background(), dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrConflict)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newStoreStub())

	in := validCreate()
	in.Password = ""
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, status.ErrInvalidFormat)

	in = validCreate()
	in.Role = "JANITOR"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, status.ErrInvalidFormat)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newStoreStub())
	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "ANA.REYES@campus.edu", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ana.reyes@campus.edu", u.Email)

	_, err = svc.Authenticate(context.Background(), "ana.reyes@campus.edu", "wrong")
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody@campus.edu", "correct-horse")
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestAuthenticateRejectsDeactivatedAccount(t *testing.T) {
	svc := NewService(newStoreStub())
	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), u.ID))

	_, err = svc.Authenticate(context.Background(), u.Email, "correct-horse")
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	require.NoError(t, svc.Activate(context.Background(), u.ID))
	_, err = svc.Authenticate(context.Background(), u.Email, "correct-horse")
	require.NoError(t, err)
}

func TestUpdateRechecksUniqueness(t *testing.T) {
	svc := NewService(newStoreStub())
	first, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	second := validCreate()
	second.Email = "ben@campus.edu"
	second.StudentID = sid("S-2002")
	benUser, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), benUser.ID, UpdateUser{Email: first.Email})
	assert.ErrorIs(t, err, status.ErrConflict)

	_, err = svc.Update(context.Background(), benUser.ID, UpdateUser{StudentID: sid("S-1001")})
	assert.ErrorIs(t, err, status.ErrConflict)

	updated, err := svc.Update(context.Background(), benUser.ID, UpdateUser{Name: "Ben Ortiz"})
	require.NoError(t, err)
	assert.Equal(t, "Ben Ortiz", updated.Name)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc := NewService(newStoreStub())
	u, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), u.ID, "wrong", "new-password")
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "correct-horse", "new-password"))
	_, err = svc.Authenticate(context.Background(), u.Email, "new-password")
	require.NoError(t, err)
}

func TestListFilters(t *testing.T) {
	svc := NewService(newStoreStub())
	_, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	admin := validCreate()
	admin.Email = "dean@campus.edu"
	admin.Role = RoleAdmin
	admin.Department = "Admin Office"
	admin.StudentID = nil
	_, err = svc.Create(context.Background(), admin)
	require.NoError(t, err)

	byRole, err := svc.List(context.Background(), RoleAdmin, "", "")
	require.NoError(t, err)
	require.Len(t, byRole, 1)
	assert.Equal(t, RoleAdmin, byRole[0].Role)

	byDept, err := svc.List(context.Background(), "", "CS", "")
	require.NoError(t, err)
	require.Len(t, byDept, 1)

	byTerm, err := svc.List(context.Background(), "", "", "reyes")
	require.NoError(t, err)
	require.Len(t, byTerm, 1)

	_, err = svc.List(context.Background(), "JANITOR", "", "")
	assert.ErrorIs(t, err, status.ErrInvalidFormat)

	all, err := svc.List(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
