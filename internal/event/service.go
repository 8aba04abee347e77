package event

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"campus-events/internal/directory"
	"campus-events/internal/monitoring"
	"campus-events/internal/status"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, ev *Event) error
	ByID(ctx context.Context, id int64) (*Event, error)
	Update(ctx context.Context, ev *Event) error
	SetApproval(ctx context.Context, id int64, st Status, approverID int64, comments string, at time.Time) error
	SetStatus(ctx context.Context, id int64, st Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter) ([]Event, error)
	Upcoming(ctx context.Context, now time.Time) ([]Event, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountByCategory(ctx context.Context) (map[Category]int, error)
}

// Users resolves organizer and approver identities.
type Users interface {
	Get(ctx context.Context, id int64) (*directory.User, error)
}

// Notifier receives lifecycle transitions for fan-out. Dispatch is
// best-effort: the service logs failures and the transition stands.
type Notifier interface {
	ApprovalRequested(ctx context.Context, ev *Event) error
	EventApproved(ctx context.Context, ev *Event) error
	EventRejected(ctx context.Context, ev *Event) error
	EventUpdated(ctx context.Context, ev *Event) error
	EventCancelled(ctx context.Context, ev *Event) error
}

// Service owns the event state machine and approval workflow.
type Service struct {
	store    Store
	users    Users
	notifier Notifier
}

// NewService creates a service backed by a store, a user directory and a
// notification sink.
func NewService(store Store, users Users, notifier Notifier) *Service {
	return &Service{store: store, users: users, notifier: notifier}
}

func (s *Service) notify(op string, err error) {
	if err != nil {
		log.Printf("notification dispatch (%s) incomplete: %v", op, err)
	}
}

// CreateEvent carries the fields accepted at submission.
type CreateEvent struct {
	Title       string
	Description string
	EventDate   time.Time
	Location    string
	Capacity    int
	Budget      *decimal.Decimal
	Category    Category
	OrganizerID int64
}

// Create submits an event. Admin organizers get immediate approval; anyone
// else starts in Pending and triggers the approval-request fan-out.
func (s *Service) Create(ctx context.Context, in CreateEvent) (*Event, error) {
	if in.Title == "" || in.Location == "" || in.EventDate.IsZero() {
		return nil, fmt.Errorf("title, location and event date required: %w", status.ErrInvalidFormat)
	}
	if in.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive: %w", status.ErrInvalidFormat)
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", in.Category, status.ErrInvalidFormat)
	}
	organizer, err := s.users.Get(ctx, in.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("organizer: %w", err)
	}

	ev := &Event{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   in.EventDate,
		Location:    in.Location,
		Capacity:    in.Capacity,
		Budget:      in.Budget,
		Category:    in.Category,
		OrganizerID: organizer.ID,
		Status:      StatusPending,
	}
	if organizer.Role == directory.RoleAdmin {
		ev.Status = StatusApproved
	}
	if err := s.store.Insert(ctx, ev); err != nil {
		return nil, err
	}
	monitoring.EventTransition(string(ev.Status))
	ev.OrganizerName = organizer.Name
	if ev.Status == StatusPending {
		s.notify("approval requested", s.notifier.ApprovalRequested(ctx, ev))
	}
	return ev, nil
}

// Get returns one event.
func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.store.ByID(ctx, id)
}

// List returns events matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]Event, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", f.Status, status.ErrInvalidFormat)
	}
	if f.Category != "" && !f.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q: %w", f.Category, status.ErrInvalidFormat)
	}
	return s.store.List(ctx, f)
}

// Upcoming returns approved events that have not started yet.
func (s *Service) Upcoming(ctx context.Context) ([]Event, error) {
	return s.store.Upcoming(ctx, time.Now())
}

// ByOrganizer lists an organizer's events, verifying the organizer exists.
func (s *Service) ByOrganizer(ctx context.Context, organizerID int64) ([]Event, error) {
	if _, err := s.users.Get(ctx, organizerID); err != nil {
		return nil, fmt.Errorf("organizer: %w", err)
	}
	return s.store.List(ctx, Filter{OrganizerID: organizerID})
}

// UpdateEvent carries the editable fields. Nil/zero fields keep their value.
type UpdateEvent struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	Location    *string
	Capacity    *int
	Budget      *decimal.Decimal
	Category    *Category
}

// Update edits an event's details regardless of status and notifies every
// registered user.
func (s *Service) Update(ctx context.Context, id int64, in UpdateEvent) (*Event, error) {
	ev, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		ev.Title = *in.Title
	}
	if in.Description != nil {
		ev.Description = *in.Description
	}
	if in.EventDate != nil {
		ev.EventDate = *in.EventDate
	}
	if in.Location != nil {
		ev.Location = *in.Location
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, fmt.Errorf("capacity must be positive: %w", status.ErrInvalidFormat)
		}
		ev.Capacity = *in.Capacity
	}
	if in.Budget != nil {
		ev.Budget = in.Budget
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, fmt.Errorf("unknown category %q: %w", *in.Category, status.ErrInvalidFormat)
		}
		ev.Category = *in.Category
	}
	if err := s.store.Update(ctx, ev); err != nil {
		return nil, err
	}
	s.notify("event updated", s.notifier.EventUpdated(ctx, ev))
	return ev, nil
}

// Approve moves a pending event to Approved, recording the approver, the
// comments and the decision time, and fans out approval notifications.
func (s *Service) Approve(ctx context.Context, eventID, approverID int64, comments string) (*Event, error) {
	return s.decide(ctx, eventID, approverID, comments, StatusApproved)
}

// Reject moves a pending event to Rejected and notifies the organizer.
// Rejected is terminal; there is no resubmission path.
func (s *Service) Reject(ctx context.Context, eventID, approverID int64, comments string) (*Event, error) {
	return s.decide(ctx, eventID, approverID, comments, StatusRejected)
}

func (s *Service) decide(ctx context.Context, eventID, approverID int64, comments string, decision Status) (*Event, error) {
	ev, err := s.store.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != StatusPending {
		return nil, fmt.Errorf("event is %s, only pending events can be decided: %w", ev.Status, status.ErrConflict)
	}
	approver, err := s.users.Get(ctx, approverID)
	if err != nil {
		return nil, fmt.Errorf("approver: %w", err)
	}
	now := time.Now()
	if err := s.store.SetApproval(ctx, eventID, decision, approver.ID, comments, now); err != nil {
		return nil, err
	}
	monitoring.EventTransition(string(decision))
	ev.Status = decision
	ev.ApprovedBy = &approver.ID
	ev.ApprovedByName = &approver.Name
	ev.ApprovalComments = comments
	ev.ApprovedAt = &now
	if decision == StatusApproved {
		s.notify("event approved", s.notifier.EventApproved(ctx, ev))
	} else {
		s.notify("event rejected", s.notifier.EventRejected(ctx, ev))
	}
	return ev, nil
}

// Complete marks an approved event as held.
func (s *Service) Complete(ctx context.Context, eventID int64) (*Event, error) {
	ev, err := s.store.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != StatusApproved {
		return nil, fmt.Errorf("event is %s, only approved events can complete: %w", ev.Status, status.ErrConflict)
	}
	if err := s.store.SetStatus(ctx, eventID, StatusCompleted); err != nil {
		return nil, err
	}
	monitoring.EventTransition(string(StatusCompleted))
	ev.Status = StatusCompleted
	return ev, nil
}

// Cancel tombstones an event: the row stays queryable in the Cancelled
// terminal status and every registered user is notified.
func (s *Service) Cancel(ctx context.Context, eventID int64) (*Event, error) {
	ev, err := s.store.ByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status.Terminal() {
		return nil, fmt.Errorf("event is already %s: %w", ev.Status, status.ErrConflict)
	}
	if err := s.store.SetStatus(ctx, eventID, StatusCancelled); err != nil {
		return nil, err
	}
	monitoring.EventTransition(string(StatusCancelled))
	ev.Status = StatusCancelled
	s.notify("event cancelled", s.notifier.EventCancelled(ctx, ev))
	return ev, nil
}

// Delete hard-removes an event and its registrations and attendance. A
// still-live event gets cancellation notices dispatched first.
func (s *Service) Delete(ctx context.Context, eventID int64) error {
	ev, err := s.store.ByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !ev.Status.Terminal() {
		s.notify("event cancelled", s.notifier.EventCancelled(ctx, ev))
	}
	return s.store.Delete(ctx, eventID)
}

// CountByStatus is a read-only analytics projection.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.store.CountByStatus(ctx)
}

// CountByCategory is a read-only analytics projection.
func (s *Service) CountByCategory(ctx context.Context) (map[Category]int, error) {
	return s.store.CountByCategory(ctx)
}
