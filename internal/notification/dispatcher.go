package notification

import (
	"context"
	"errors"
	"fmt"

	"campus-events/internal/directory"
	"campus-events/internal/event"
	"campus-events/internal/monitoring"
)

// Store persists individual notification rows.
type Store interface {
	Insert(ctx context.Context, n *Notification) error
}

// Directory resolves role-based broadcast recipients.
type Directory interface {
	ActiveByRole(ctx context.Context, roles ...directory.Role) ([]directory.User, error)
}

// Registrations resolves the registered users of an event.
type Registrations interface {
	RegisteredUserIDs(ctx context.Context, eventID int64) ([]int64, error)
}

// Dispatcher fans workflow events out into one persisted notification per
// affected recipient. Fan-out is best-effort: each row is saved
// independently, and a failure for one recipient does not roll back the
// others. The joined error reports what was missed.
type Dispatcher struct {
	store Store
	users Directory
	regs  Registrations
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(store Store, users Directory, regs Registrations) *Dispatcher {
	return &Dispatcher{store: store, users: users, regs: regs}
}

func (d *Dispatcher) save(ctx context.Context, n *Notification) error {
	if err := d.store.Insert(ctx, n); err != nil {
		return fmt.Errorf("notify user %d: %w", n.UserID, err)
	}
	monitoring.Notification(string(n.Type))
	return nil
}

func (d *Dispatcher) fanOut(ctx context.Context, userIDs []int64, template Notification) error {
	var errs []error
	for _, id := range userIDs {
		n := template
		n.UserID = id
		if err := d.save(ctx, &n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) registrants(ctx context.Context, eventID int64) ([]int64, error) {
	return d.regs.RegisteredUserIDs(ctx, eventID)
}

func userIDs(users []directory.User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

// ApprovalRequested notifies every active admin and faculty member that a
// submitted event needs a decision.
func (d *Dispatcher) ApprovalRequested(ctx context.Context, ev *event.Event) error {
	reviewers, err := d.users.ActiveByRole(ctx, directory.RoleAdmin, directory.RoleFaculty)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, userIDs(reviewers), Notification{
		Title:          "New Event Approval Required",
		Message:        fmt.Sprintf("Event '%s' requires your approval", ev.Title),
		Type:           TypeApprovalRequest,
		EventID:        &ev.ID,
		ActionRequired: true,
	})
}

// EventApproved notifies the organizer, then broadcasts an informational
// notice to every active student.
func (d *Dispatcher) EventApproved(ctx context.Context, ev *event.Event) error {
	var errs []error
	errs = append(errs, d.save(ctx, &Notification{
		Title:   "Event Approved",
		Message: fmt.Sprintf("Your event '%s' has been approved", ev.Title),
		Type:    TypeSuccess,
		UserID:  ev.OrganizerID,
		EventID: &ev.ID,
	}))

	students, err := d.users.ActiveByRole(ctx, directory.RoleStudent)
	if err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, d.fanOut(ctx, userIDs(students), Notification{
			Title:   "New Event Available",
			Message: fmt.Sprintf("New event '%s' is now available for registration", ev.Title),
			Type:    TypeInfo,
			EventID: &ev.ID,
		}))
	}
	return errors.Join(errs...)
}

// EventRejected notifies the organizer only.
func (d *Dispatcher) EventRejected(ctx context.Context, ev *event.Event) error {
	return d.save(ctx, &Notification{
		Title:   "Event Rejected",
		Message: fmt.Sprintf("Your event '%s' has been rejected. Reason: %s", ev.Title, ev.ApprovalComments),
		Type:    TypeError,
		UserID:  ev.OrganizerID,
		EventID: &ev.ID,
	})
}

// EventUpdated notifies every registered user of changed details.
func (d *Dispatcher) EventUpdated(ctx context.Context, ev *event.Event) error {
	ids, err := d.registrants(ctx, ev.ID)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, ids, Notification{
		Title:   "Event Updated",
		Message: fmt.Sprintf("Event '%s' has been updated. Please check the details.", ev.Title),
		Type:    TypeWarning,
		EventID: &ev.ID,
	})
}

// EventCancelled notifies every registered user.
func (d *Dispatcher) EventCancelled(ctx context.Context, ev *event.Event) error {
	ids, err := d.registrants(ctx, ev.ID)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, ids, Notification{
		Title:   "Event Cancelled",
		Message: fmt.Sprintf("Event '%s' has been cancelled", ev.Title),
		Type:    TypeError,
		EventID: &ev.ID,
	})
}

// EventReminder notifies every registered user that the event is near.
func (d *Dispatcher) EventReminder(ctx context.Context, ev *event.Event) error {
	ids, err := d.registrants(ctx, ev.ID)
	if err != nil {
		return err
	}
	return d.fanOut(ctx, ids, Notification{
		Title:   "Event Reminder",
		Message: fmt.Sprintf("Reminder: '%s' starts at %s", ev.Title, ev.EventDate.Format("Mon, 02 Jan 2006 15:04")),
		Type:    TypeReminder,
		EventID: &ev.ID,
	})
}

// RegistrationConfirmed notifies the acting user.
func (d *Dispatcher) RegistrationConfirmed(ctx context.Context, ev *event.Event, user *directory.User) error {
	return d.save(ctx, &Notification{
		Title:   "Registration Confirmed",
		Message: fmt.Sprintf("You have successfully registered for '%s'", ev.Title),
		Type:    TypeSuccess,
		UserID:  user.ID,
		EventID: &ev.ID,
	})
}

// RegistrationCancelled notifies the acting user.
func (d *Dispatcher) RegistrationCancelled(ctx context.Context, ev *event.Event, user *directory.User) error {
	return d.save(ctx, &Notification{
		Title:   "Registration Cancelled",
		Message: fmt.Sprintf("You have cancelled your registration for '%s'", ev.Title),
		Type:    TypeInfo,
		UserID:  user.ID,
		EventID: &ev.ID,
	})
}
