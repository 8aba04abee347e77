package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"campus-events/internal/status"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new attendance record. The unique pair index backstops
// the service's pre-insert existence check.
func (r *Repository) Insert(ctx context.Context, a *Attendance) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (event_id, user_id, check_in_time, status, check_in_method)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, a.EventID, a.UserID, a.CheckInTime, a.Status, a.CheckInMethod)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return mapInsertErr(err)
	}
	return nil
}

// mapInsertErr turns a unique pair violation into Conflict; two racing
// check-ins for the same pair both pass the existence check and the loser
// lands here.
func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("user already checked in for this event: %w", status.ErrConflict)
	}
	return err
}

// Exists reports whether the pair already has an attendance record.
func (r *Repository) Exists(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendance WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	return exists, err
}

// ByPair returns the pair's attendance record.
func (r *Repository) ByPair(ctx context.Context, eventID, userID int64) (*Attendance, error) {
	var a Attendance
	err := r.db.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, check_in_time, check_out_time, status, check_in_method, created_at
		FROM attendance WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&a.ID, &a.EventID, &a.UserID, &a.CheckInTime,
		&a.CheckOutTime, &a.Status, &a.CheckInMethod, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("attendance: %w", status.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// SetCheckOut stamps the check-out time on an existing record.
func (r *Repository) SetCheckOut(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE attendance SET check_out_time = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("attendance: %w", status.ErrNotFound)
	}
	return nil
}

// CountPresent counts Present-status records for an event.
func (r *Repository) CountPresent(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE event_id = $1 AND status = 'PRESENT'`,
		eventID).Scan(&n)
	return n, err
}

// ByEvent lists an event's attendance with user names.
func (r *Repository) ByEvent(ctx context.Context, eventID int64) ([]Attendance, error) {
	return r.query(ctx, `
		SELECT a.id, a.event_id, a.user_id, a.check_in_time, a.check_out_time,
		       a.status, a.check_in_method, a.created_at, u.name, e.title
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		JOIN events e ON e.id = a.event_id
		WHERE a.event_id = $1
		ORDER BY a.check_in_time
	`, eventID)
}

// ByUser lists a user's attendance history with event titles.
func (r *Repository) ByUser(ctx context.Context, userID int64) ([]Attendance, error) {
	return r.query(ctx, `
		SELECT a.id, a.event_id, a.user_id, a.check_in_time, a.check_out_time,
		       a.status, a.check_in_method, a.created_at, u.name, e.title
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		JOIN events e ON e.id = a.event_id
		WHERE a.user_id = $1
		ORDER BY a.check_in_time DESC
	`, userID)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Attendance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attendance
	for rows.Next() {
		var a Attendance
		if err := rows.Scan(&a.ID, &a.EventID, &a.UserID, &a.CheckInTime, &a.CheckOutTime,
			&a.Status, &a.CheckInMethod, &a.CreatedAt, &a.UserName, &a.EventTitle); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
