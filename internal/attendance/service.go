package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"campus-events/internal/directory"
	"campus-events/internal/event"
	"campus-events/internal/monitoring"
	"campus-events/internal/status"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, a *Attendance) error
	Exists(ctx context.Context, eventID, userID int64) (bool, error)
	ByPair(ctx context.Context, eventID, userID int64) (*Attendance, error)
	SetCheckOut(ctx context.Context, id int64, at time.Time) error
	CountPresent(ctx context.Context, eventID int64) (int, error)
	ByEvent(ctx context.Context, eventID int64) ([]Attendance, error)
	ByUser(ctx context.Context, userID int64) ([]Attendance, error)
}

// Registrations answers whether a pair is registered; registration is the
// precondition for check-in.
type Registrations interface {
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	CountRegistered(ctx context.Context, eventID int64) (int, error)
}

// Events resolves event existence.
type Events interface {
	Get(ctx context.Context, id int64) (*event.Event, error)
}

// Users resolves user existence.
type Users interface {
	Get(ctx context.Context, id int64) (*directory.User, error)
}

// Service records check-ins and check-outs and derives turnout statistics.
type Service struct {
	store    Store
	regs     Registrations
	events   Events
	users    Users
	tokenTTL time.Duration
}

// NewService creates a service. tokenTTL bounds the age of scanned check-in
// tokens; zero disables the expiry check.
func NewService(store Store, regs Registrations, events Events, users Users, tokenTTL time.Duration) *Service {
	return &Service{store: store, regs: regs, events: events, users: users, tokenTTL: tokenTTL}
}

// CheckIn records a user's arrival. The user must be registered for the
// event, and only one check-in per pair is allowed; a second attempt fails
// with Conflict rather than succeeding idempotently.
func (s *Service) CheckIn(ctx context.Context, eventID, userID int64, method Method) (*Attendance, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("unknown check-in method %q: %w", method, status.ErrInvalidFormat)
	}
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	registered, err := s.regs.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, fmt.Errorf("user is not registered for this event: %w", status.ErrPrecondition)
	}
	checkedIn, err := s.store.Exists(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if checkedIn {
		return nil, fmt.Errorf("user already checked in for this event: %w", status.ErrConflict)
	}

	a := &Attendance{
		EventID:       eventID,
		UserID:        userID,
		CheckInTime:   time.Now(),
		Status:        StatusPresent,
		CheckInMethod: method,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}
	monitoring.CheckIn(string(method))
	return a, nil
}

// CheckOut stamps the departure time on the pair's attendance record. A
// later check-out overwrites an earlier one.
func (s *Service) CheckOut(ctx context.Context, eventID, userID int64) (*Attendance, error) {
	a, err := s.store.ByPair(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, fmt.Errorf("user has not checked in for this event: %w", status.ErrPrecondition)
		}
		return nil, err
	}
	now := time.Now()
	if err := s.store.SetCheckOut(ctx, a.ID, now); err != nil {
		return nil, err
	}
	a.CheckOutTime = &now
	return a, nil
}

// EventStats derives turnout numbers for an event. The rate is
// present/registered as a percentage rounded to two decimals, 0 when nobody
// registered.
func (s *Service) EventStats(ctx context.Context, eventID int64) (Stats, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return Stats{}, err
	}
	registered, err := s.regs.CountRegistered(ctx, eventID)
	if err != nil {
		return Stats{}, err
	}
	present, err := s.store.CountPresent(ctx, eventID)
	if err != nil {
		return Stats{}, err
	}
	absent := registered - present
	if absent < 0 {
		absent = 0
	}
	var rate float64
	if registered > 0 {
		rate = math.Round(float64(present)/float64(registered)*100*100) / 100
	}
	return Stats{
		TotalRegistered: registered,
		TotalPresent:    present,
		TotalAbsent:     absent,
		AttendanceRate:  rate,
	}, nil
}

// GenerateCheckInToken produces the payload embedded in the user's scannable
// code. The payload is plaintext and unsigned; only its age is checked at
// scan time.
func (s *Service) GenerateCheckInToken(eventID, userID int64) string {
	return EncodeToken(eventID, userID, time.Now())
}

// ProcessScannedToken parses a scanned payload and performs the check-in
// with the QR_CODE method. Stale tokens are rejected when a TTL is set.
func (s *Service) ProcessScannedToken(ctx context.Context, payload string) (*Attendance, error) {
	eventID, userID, issuedAt, err := DecodeToken(payload)
	if err != nil {
		return nil, err
	}
	if s.tokenTTL > 0 && time.Since(issuedAt) > s.tokenTTL {
		return nil, fmt.Errorf("check-in token expired: %w", status.ErrUnauthorized)
	}
	return s.CheckIn(ctx, eventID, userID, MethodQRCode)
}

// ListByEvent returns an event's attendance records.
func (s *Service) ListByEvent(ctx context.Context, eventID int64) ([]Attendance, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ByEvent(ctx, eventID)
}

// ListByUser returns a user's attendance history.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Attendance, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	return s.store.ByUser(ctx, userID)
}
