package registration

import (
	"context"
	"fmt"
	"log"

	"campus-events/internal/directory"
	"campus-events/internal/event"
	"campus-events/internal/monitoring"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, eventID, userID int64) (*Registration, error)
	Delete(ctx context.Context, eventID, userID int64) error
	Exists(ctx context.Context, eventID, userID int64) (bool, error)
	CountRegistered(ctx context.Context, eventID int64) (int, error)
	ByEvent(ctx context.Context, eventID int64) ([]Registration, error)
	ByUser(ctx context.Context, userID int64) ([]Registration, error)
}

// Events resolves event context for notifications.
type Events interface {
	Get(ctx context.Context, id int64) (*event.Event, error)
}

// Users resolves the registering user.
type Users interface {
	Get(ctx context.Context, id int64) (*directory.User, error)
}

// Notifier receives sign-up side effects; dispatch failures are logged, not
// propagated.
type Notifier interface {
	RegistrationConfirmed(ctx context.Context, ev *event.Event, user *directory.User) error
	RegistrationCancelled(ctx context.Context, ev *event.Event, user *directory.User) error
}

// Service enforces capacity and uniqueness for event sign-ups.
type Service struct {
	store    Store
	events   Events
	users    Users
	notifier Notifier
}

// NewService creates a service.
func NewService(store Store, events Events, users Users, notifier Notifier) *Service {
	return &Service{store: store, events: events, users: users, notifier: notifier}
}

// Register reserves a slot for the user. It fails with Conflict on a
// duplicate pair and with CapacityExceeded when the event is full; the
// capacity check runs under the store's per-event lock.
func (s *Service) Register(ctx context.Context, eventID, userID int64) (*Registration, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	reg, err := s.store.Create(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	monitoring.Registration("registered")
	if err := s.notifier.RegistrationConfirmed(ctx, ev, user); err != nil {
		log.Printf("registration confirmation notification failed: %v", err)
	}
	return reg, nil
}

// Unregister releases the user's slot (hard delete) and sends a
// cancellation notification.
func (s *Service) Unregister(ctx context.Context, eventID, userID int64) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user: %w", err)
	}
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, eventID, userID); err != nil {
		return err
	}
	monitoring.Registration("unregistered")
	if err := s.notifier.RegistrationCancelled(ctx, ev, user); err != nil {
		log.Printf("registration cancellation notification failed: %v", err)
	}
	return nil
}

// CountRegistered returns the live registration count for an event.
func (s *Service) CountRegistered(ctx context.Context, eventID int64) (int, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return 0, err
	}
	return s.store.CountRegistered(ctx, eventID)
}

// IsRegistered reports whether the pair holds a registration.
func (s *Service) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	return s.store.Exists(ctx, eventID, userID)
}

// ListByEvent returns an event's registrations.
func (s *Service) ListByEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ByEvent(ctx, eventID)
}

// ListByUser returns a user's registrations.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Registration, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}
	return s.store.ByUser(ctx, userID)
}
