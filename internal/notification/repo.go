package notification

import (
	"context"
	"database/sql"
	"fmt"

	"campus-events/internal/status"
)

// Repository persists notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one notification row.
func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (title, message, type, user_id, event_id, action_required)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, n.Title, n.Message, n.Type, n.UserID, n.EventID, n.ActionRequired)
	return row.Scan(&n.ID, &n.CreatedAt)
}

// ByUser lists a user's notifications, newest first.
func (r *Repository) ByUser(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, message, type, user_id, event_id, is_read, action_required, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.UserID,
			&n.EventID, &n.IsRead, &n.ActionRequired, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadCount counts a user's unread notifications.
func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID).Scan(&n)
	return n, err
}

// MarkRead flags one of the user's notifications read.
func (r *Repository) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification: %w", status.ErrNotFound)
	}
	return nil
}

// MarkAllRead flags every unread notification of the user read.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	return err
}
