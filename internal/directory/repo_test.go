package directory

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"campus-events/internal/status"
)

func TestRacingDuplicateSignUpMapsToConflict(t *testing.T) {
	for _, constraint := range []string{"users_email_key", "users_student_id_key"} {
		err := mapUniqueErr(&pgconn.PgError{Code: "23505", ConstraintName: constraint})
		assert.ErrorIs(t, err, status.ErrConflict)
	}
}

func TestMapUniqueErrPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Equal(t, boom, mapUniqueErr(boom))
	assert.NotErrorIs(t, mapUniqueErr(&pgconn.PgError{Code: "23503"}), status.ErrConflict)
}
