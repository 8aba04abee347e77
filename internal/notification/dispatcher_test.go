package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-events/internal/directory"
	"campus-events/internal/event"
)

type storeSpy struct {
	saved   []Notification
	failFor map[int64]error
}

func (s *storeSpy) Insert(_ context.Context, n *Notification) error {
	if err := s.failFor[n.UserID]; err != nil {
		return err
	}
	s.saved = append(s.saved, *n)
	return nil
}

func (s *storeSpy) recipients() []int64 {
	out := make([]int64, len(s.saved))
	for i, n := range s.saved {
		out[i] = n.UserID
	}
	return out
}

type directoryStub struct{ byRole map[directory.Role][]directory.User }

func (d *directoryStub) ActiveByRole(_ context.Context, roles ...directory.Role) ([]directory.User, error) {
	var out []directory.User
	for _, r := range roles {
		out = append(out, d.byRole[r]...)
	}
	return out, nil
}

type regsStub struct{ ids map[int64][]int64 }

func (r *regsStub) RegisteredUserIDs(_ context.Context, eventID int64) ([]int64, error) {
	return r.ids[eventID], nil
}

func newFixture() (*Dispatcher, *storeSpy) {
	store := &storeSpy{failFor: make(map[int64]error)}
	users := &directoryStub{byRole: map[directory.Role][]directory.User{
		directory.RoleAdmin:   {{ID: 1, Role: directory.RoleAdmin}},
		directory.RoleFaculty: {{ID: 2, Role: directory.RoleFaculty}},
		directory.RoleStudent: {{ID: 10, Role: directory.RoleStudent}, {ID: 11, Role: directory.RoleStudent}},
	}}
	regs := &regsStub{ids: map[int64][]int64{42: {10, 11}}}
	return NewDispatcher(store, users, regs), store
}

func sampleEvent() *event.Event {
	return &event.Event{
		ID:          42,
		Title:       "Spring Orientation",
		EventDate:   time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC),
		OrganizerID: 5,
	}
}

func TestApprovalRequestedNotifiesReviewers(t *testing.T) {
	d, store := newFixture()
	require.NoError(t, d.ApprovalRequested(context.Background(), sampleEvent()))

	assert.ElementsMatch(t, []int64{1, 2}, store.recipients())
	for _, n := range store.saved {
		assert.Equal(t, TypeApprovalRequest, n.Type)
		assert.True(t, n.ActionRequired)
		require.NotNil(t, n.EventID)
		assert.Equal(t, int64(42), *n.EventID)
		assert.Contains(t, n.Message, "Spring Orientation")
	}
}

func TestEventApprovedNotifiesOrganizerAndStudents(t *testing.T) {
	d, store := newFixture()
	require.NoError(t, d.EventApproved(context.Background(), sampleEvent()))

	assert.ElementsMatch(t, []int64{5, 10, 11}, store.recipients())
	assert.Equal(t, TypeSuccess, store.saved[0].Type)
	assert.Equal(t, int64(5), store.saved[0].UserID)
	for _, n := range store.saved[1:] {
		assert.Equal(t, TypeInfo, n.Type)
	}
}

func TestEventRejectedNotifiesOrganizerWithReason(t *testing.T) {
	d, store := newFixture()
	ev := sampleEvent()
	ev.ApprovalComments = "venue unavailable"
	require.NoError(t, d.EventRejected(context.Background(), ev))

	require.Len(t, store.saved, 1)
	n := store.saved[0]
	assert.Equal(t, int64(5), n.UserID)
	assert.Equal(t, TypeError, n.Type)
	assert.Contains(t, n.Message, "venue unavailable")
}

func TestEventUpdatedNotifiesRegistrants(t *testing.T) {
	d, store := newFixture()
	require.NoError(t, d.EventUpdated(context.Background(), sampleEvent()))
	assert.ElementsMatch(t, []int64{10, 11}, store.recipients())
	assert.Equal(t, TypeWarning, store.saved[0].Type)
}

func TestEventCancelledNotifiesRegistrants(t *testing.T) {
	d, store := newFixture()
	require.NoError(t, d.EventCancelled(context.Background(), sampleEvent()))
	assert.ElementsMatch(t, []int64{10, 11}, store.recipients())
	assert.Equal(t, TypeError, store.saved[0].Type)
}

func TestEventReminderNotifiesRegistrants(t *testing.T) {
	d, store := newFixture()
	require.NoError(t, d.EventReminder(context.Background(), sampleEvent()))
	assert.ElementsMatch(t, []int64{10, 11}, store.recipients())
	for _, n := range store.saved {
		assert.Equal(t, TypeReminder, n.Type)
		assert.Contains(t, n.Message, "Mon, 02 Sep 2024 09:00")
	}
}

func TestRegistrationNoticesTargetActingUser(t *testing.T) {
	d, store := newFixture()
	user := &directory.User{ID: 10}
	require.NoError(t, d.RegistrationConfirmed(context.Background(), sampleEvent(), user))
	require.NoError(t, d.RegistrationCancelled(context.Background(), sampleEvent(), user))

	require.Len(t, store.saved, 2)
	assert.Equal(t, TypeSuccess, store.saved[0].Type)
	assert.Equal(t, TypeInfo, store.saved[1].Type)
	for _, n := range store.saved {
		assert.Equal(t, int64(10), n.UserID)
	}
}

func TestFanOutIsBestEffort(t *testing.T) {
	d, store := newFixture()
	boom := errors.New("insert failed")
	store.failFor[10] = boom

	err := d.EventCancelled(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// user 11 still got the notice
	assert.Equal(t, []int64{11}, store.recipients())
}

func TestFanOutReportsEveryFailure(t *testing.T) {
	d, store := newFixture()
	store.failFor[10] = fmt.Errorf("row 10 failed")
	store.failFor[11] = fmt.Errorf("row 11 failed")

	err := d.EventUpdated(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 10 failed")
	assert.Contains(t, err.Error(), "row 11 failed")
}
