package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"campus-events/internal/status"
)

// Repository persists registrations in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a registration for the pair inside one transaction. The
// event row is locked first so the capacity check and the insert are
// serialized against concurrent registrations for the same event; two racing
// callers cannot both pass the check and jointly exceed capacity.
func (r *Repository) Create(ctx context.Context, eventID, userID int64) (*Registration, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event: %w", status.ErrNotFound)
		}
		return nil, err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("user already registered for this event: %w", status.ErrConflict)
	}

	var registered int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'REGISTERED'`,
		eventID).Scan(&registered)
	if err != nil {
		return nil, err
	}
	if registered >= capacity {
		return nil, fmt.Errorf("%d of %d slots taken: %w", registered, capacity, status.ErrCapacityExceeded)
	}

	reg := &Registration{EventID: eventID, UserID: userID, Status: StatusRegistered}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, user_id, status)
		VALUES ($1,$2,$3)
		RETURNING id, registered_at
	`, eventID, userID, StatusRegistered).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		// The unique pair index backstops the in-tx existence check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("user already registered for this event: %w", status.ErrConflict)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Delete hard-removes the registration for the pair.
func (r *Repository) Delete(ctx context.Context, eventID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("registration: %w", status.ErrNotFound)
	}
	return nil
}

// Exists reports whether the pair has a registration.
func (r *Repository) Exists(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	return exists, err
}

// CountRegistered returns the number of Registered-status registrations.
func (r *Repository) CountRegistered(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'REGISTERED'`,
		eventID).Scan(&n)
	return n, err
}

// ByEvent lists an event's registrations with user names.
func (r *Repository) ByEvent(ctx context.Context, eventID int64) ([]Registration, error) {
	return r.query(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.status, r.registered_at, u.name, e.title
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at
	`, eventID)
}

// ByUser lists a user's registrations with event titles.
func (r *Repository) ByUser(ctx context.Context, userID int64) ([]Registration, error) {
	return r.query(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.status, r.registered_at, u.name, e.title
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1
		ORDER BY e.event_date
	`, userID)
}

// RegisteredUserIDs returns the user ids currently registered for an event;
// the notification dispatcher resolves fan-out recipients with it.
func (r *Repository) RegisteredUserIDs(ctx context.Context, eventID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM registrations WHERE event_id = $1 AND status = 'REGISTERED' ORDER BY user_id`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status,
			&reg.RegisteredAt, &reg.UserName, &reg.EventTitle); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}
