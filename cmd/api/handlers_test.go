package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-events/internal/auth"
	"campus-events/internal/config"
	"campus-events/internal/directory"
	"campus-events/internal/status"
)

type userStoreStub struct {
	byEmail map[string]*directory.User
}

func (s *userStoreStub) Insert(context.Context, *directory.User) error { return nil }

func (s *userStoreStub) ByID(_ context.Context, id int64) (*directory.User, error) {
	return nil, fmt.Errorf("user %d: %w", id, status.ErrNotFound)
}

func (s *userStoreStub) ByEmail(_ context.Context, email string) (*directory.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, status.ErrNotFound)
	}
	return u, nil
}

func (s *userStoreStub) ExistsByEmail(context.Context, string) (bool, error)     { return false, nil }
func (s *userStoreStub) ExistsByStudentID(context.Context, string) (bool, error) { return false, nil }
func (s *userStoreStub) All(context.Context) ([]directory.User, error)           { return nil, nil }
func (s *userStoreStub) ByRole(context.Context, directory.Role) ([]directory.User, error) {
	return nil, nil
}
func (s *userStoreStub) ByDepartment(context.Context, string) ([]directory.User, error) {
	return nil, nil
}
func (s *userStoreStub) Search(context.Context, string) ([]directory.User, error) { return nil, nil }
func (s *userStoreStub) UpdateProfile(context.Context, *directory.User) error     { return nil }
func (s *userStoreStub) SetActive(context.Context, int64, bool) error             { return nil }
func (s *userStoreStub) SetPassword(context.Context, int64, string) error         { return nil }

const (
	testSigningKey = "handler-test-signing-key"
	testIssuer     = "campus-events-test"
)

func newTestRouter(store directory.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &server{
		cfg: config.App{
			JWTIssuer:     testIssuer,
			JWTSigningKey: testSigningKey,
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		users: directory.NewService(store),
	}
	r := gin.New()
	s.registerRoutes(r)
	return r
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	r := newTestRouter(&userStoreStub{byEmail: map[string]*directory.User{
		"ana@campus.edu": {
			ID: 1, Email: "ana@campus.edu", PasswordHash: hash,
			Role: directory.RoleStudent, IsActive: true,
		},
	}})

	cases := []struct {
		name string
		body string
	}{
		{"unknown email", `{"email":"nobody@campus.edu","password":"correct-horse"}`},
		{"wrong password", `{"email":"ana@campus.edu","password":"wrong-password"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "invalid credentials")
		})
	}
}

func TestListEventsRejectsMalformedDateRange(t *testing.T) {
	r := newTestRouter(&userStoreStub{})
	pair, err := auth.Issue(1, "STUDENT", testIssuer, testSigningKey, time.Minute, time.Hour)
	require.NoError(t, err)

	for _, query := range []string{"from=yesterday", "to=2024-13-99", "from=2024-03-15"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/events?"+query, nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)
		assert.Contains(t, w.Body.String(), "RFC 3339")
	}
}
