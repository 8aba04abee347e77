package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-events/internal/status"
)

func TestTokenRoundTrip(t *testing.T) {
	issued := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	payload := EncodeToken(42, 7, issued)
	assert.Equal(t, "42:7:1710498600000", payload)

	eventID, userID, issuedAt, err := DecodeToken(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(42), eventID)
	assert.Equal(t, int64(7), userID)
	assert.True(t, issuedAt.Equal(issued))
}

func TestDecodeTokenRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"non-numeric event id", "abc:7:123"},
		{"non-numeric user id", "1:x:123"},
		{"non-numeric timestamp", "1:2:now"},
		{"too few fields", "1:2"},
		{"too many fields", "1:2:3:4"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := DecodeToken(tc.payload)
			require.Error(t, err)
			assert.True(t, errors.Is(err, status.ErrInvalidFormat))
		})
	}
}
