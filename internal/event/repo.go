package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campus-events/internal/status"
)

// Repository persists events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// selectEvent joins the organizer/approver names and the live registration
// count so listings do not need N+1 lookups.
const selectEvent = `
	SELECT e.id, e.title, e.description, e.event_date, e.location, e.capacity,
	       e.budget, e.category, e.status, e.organizer_id, o.name,
	       e.approved_by, a.name, e.approval_comments, e.approved_at,
	       (SELECT COUNT(*) FROM registrations r
	         WHERE r.event_id = e.id AND r.status = 'REGISTERED'),
	       e.created_at, e.updated_at
	FROM events e
	JOIN users o ON o.id = e.organizer_id
	LEFT JOIN users a ON a.id = e.approved_by`

func scanEvent(row interface{ Scan(...any) error }) (*Event, error) {
	var ev Event
	var comments sql.NullString
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.Location,
		&ev.Capacity, &ev.Budget, &ev.Category, &ev.Status, &ev.OrganizerID,
		&ev.OrganizerName, &ev.ApprovedBy, &ev.ApprovedByName, &comments,
		&ev.ApprovedAt, &ev.RegisteredCount, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event: %w", status.ErrNotFound)
		}
		return nil, err
	}
	ev.ApprovalComments = comments.String
	return &ev, nil
}

// Insert writes a new event and fills in generated fields.
func (r *Repository) Insert(ctx context.Context, ev *Event) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO events (title, description, event_date, location, capacity, budget, category, status, organizer_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`, ev.Title, ev.Description, ev.EventDate, ev.Location, ev.Capacity,
		ev.Budget, ev.Category, ev.Status, ev.OrganizerID)
	return row.Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
}

// ByID returns a single event.
func (r *Repository) ByID(ctx context.Context, id int64) (*Event, error) {
	return scanEvent(r.db.QueryRowContext(ctx, selectEvent+` WHERE e.id = $1`, id))
}

// Update rewrites the editable fields.
func (r *Repository) Update(ctx context.Context, ev *Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, event_date = $4, location = $5,
		    capacity = $6, budget = $7, category = $8, updated_at = NOW()
		WHERE id = $1
	`, ev.ID, ev.Title, ev.Description, ev.EventDate, ev.Location,
		ev.Capacity, ev.Budget, ev.Category)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetApproval records an approve/reject decision.
func (r *Repository) SetApproval(ctx context.Context, id int64, st Status, approverID int64, comments string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET status = $2, approved_by = $3, approval_comments = $4, approved_at = $5, updated_at = NOW()
		WHERE id = $1
	`, id, st, approverID, comments, at)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetStatus moves an event to a new lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, id int64, st Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`, id, st)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete hard-removes an event; registrations and attendance cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event: %w", status.ErrNotFound)
	}
	return nil
}

// Filter narrows a listing. Zero values are ignored.
type Filter struct {
	Status      Status
	Category    Category
	OrganizerID int64
	From        time.Time
	To          time.Time
	Search      string
	Limit       int
	Offset      int
}

// List returns events matching the filter, soonest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Event, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	query := selectEvent
	args := []any{}
	clauses := []string{}
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }
	if f.Status != "" {
		clauses = append(clauses, "e.status = "+next())
		args = append(args, f.Status)
	}
	if f.Category != "" {
		clauses = append(clauses, "e.category = "+next())
		args = append(args, f.Category)
	}
	if f.OrganizerID != 0 {
		clauses = append(clauses, "e.organizer_id = "+next())
		args = append(args, f.OrganizerID)
	}
	if !f.From.IsZero() {
		clauses = append(clauses, "e.event_date >= "+next())
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "e.event_date <= "+next())
		args = append(args, f.To)
	}
	if f.Search != "" {
		clauses = append(clauses,
			"(e.title ILIKE '%' || "+next()+" || '%' OR e.description ILIKE '%' || "+next()+" || '%')")
		args = append(args, f.Search, f.Search)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += fmt.Sprintf(" ORDER BY e.event_date ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	return r.queryEvents(ctx, query, args...)
}

// Upcoming returns approved events scheduled at or after now.
func (r *Repository) Upcoming(ctx context.Context, now time.Time) ([]Event, error) {
	return r.queryEvents(ctx,
		selectEvent+` WHERE e.status = 'APPROVED' AND e.event_date >= $1 ORDER BY e.event_date ASC`, now)
}

// ApprovedStartingBetween returns approved events in the window; the worker
// uses it to find events due a reminder.
func (r *Repository) ApprovedStartingBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	return r.queryEvents(ctx,
		selectEvent+` WHERE e.status = 'APPROVED' AND e.event_date >= $1 AND e.event_date < $2 ORDER BY e.event_date ASC`,
		from, to)
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var ev Event
		var comments sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.EventDate, &ev.Location,
			&ev.Capacity, &ev.Budget, &ev.Category, &ev.Status, &ev.OrganizerID,
			&ev.OrganizerName, &ev.ApprovedBy, &ev.ApprovedByName, &comments,
			&ev.ApprovedAt, &ev.RegisteredCount, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		ev.ApprovalComments = comments.String
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountByStatus returns how many events sit in each lifecycle status.
func (r *Repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM events GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[Status]int)
	for rows.Next() {
		var st Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[st] = n
	}
	return out, rows.Err()
}

// CountByCategory returns how many events exist per category.
func (r *Repository) CountByCategory(ctx context.Context) (map[Category]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM events GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[Category]int)
	for rows.Next() {
		var cat Category
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		out[cat] = n
	}
	return out, rows.Err()
}
