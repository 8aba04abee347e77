package attendance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"campus-events/internal/status"
)

func TestRacingDuplicateCheckInMapsToConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "attendance_event_id_user_id_key"}
	err := mapInsertErr(pgErr)
	assert.ErrorIs(t, err, status.ErrConflict)

	wrapped := fmt.Errorf("scan: %w", pgErr)
	assert.ErrorIs(t, mapInsertErr(wrapped), status.ErrConflict)
}

func TestMapInsertErrPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Equal(t, boom, mapInsertErr(boom))

	serialization := &pgconn.PgError{Code: "40001"}
	assert.NotErrorIs(t, mapInsertErr(serialization), status.ErrConflict)
}
