package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	want := Message{Type: TypeReminder, EventID: 42}
	require.NoError(t, q.Publish(ctx, want))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	select {
	case got := <-msgs:
		assert.Equal(t, want, got)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestInMemoryPublishRespectsContext(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, Message{Type: TypeReminder, EventID: 1}))

	// buffer full, cancelled context unblocks
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := q.Publish(cancelled, Message{Type: TypeReminder, EventID: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisQueuePublish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, "campus:reminders")

	msg := Message{Type: TypeReminder, EventID: 7}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectLPush("campus:reminders", payload).SetVal(1)
	require.NoError(t, q.Publish(context.Background(), msg))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueueDefaultKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, "")

	msg := Message{Type: TypeReminder, EventID: 9}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectLPush("campus:reminders", payload).SetVal(1)
	require.NoError(t, q.Publish(context.Background(), msg))
	require.NoError(t, mock.ExpectationsWereMet())
}
