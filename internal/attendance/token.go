package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"campus-events/internal/status"
)

// tokenDelimiter joins the three token fields. The textual layout
// "<event>:<user>:<millis>" is the wire contract between token generation
// and token scanning; both sides must round-trip it unchanged.
const tokenDelimiter = ":"

// EncodeToken builds a check-in token payload for embedding in a scannable
// code.
func EncodeToken(eventID, userID int64, issuedAt time.Time) string {
	fields := []string{
		strconv.FormatInt(eventID, 10),
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(issuedAt.UnixMilli(), 10),
	}
	return strings.Join(fields, tokenDelimiter)
}

// DecodeToken parses a scanned payload back into its fields. A wrong field
// count or a non-integer field fails with InvalidFormat.
func DecodeToken(payload string) (eventID, userID int64, issuedAt time.Time, err error) {
	parts := strings.Split(payload, tokenDelimiter)
	if len(parts) != 3 {
		return 0, 0, time.Time{}, fmt.Errorf("token must have 3 fields, got %d: %w", len(parts), status.ErrInvalidFormat)
	}
	eventID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("bad event id %q: %w", parts[0], status.ErrInvalidFormat)
	}
	userID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("bad user id %q: %w", parts[1], status.ErrInvalidFormat)
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, time.Time{}, fmt.Errorf("bad timestamp %q: %w", parts[2], status.ErrInvalidFormat)
	}
	return eventID, userID, time.UnixMilli(millis), nil
}
