package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"campus-events/internal/status"
)

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, department, student_id, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Department, &u.StudentID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", status.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// Insert writes a new user and fills in generated fields. The unique email
// and student_id indexes backstop the service's uniqueness checks.
func (r *Repository) Insert(ctx context.Context, u *User) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, department, student_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.PasswordHash, u.Role, u.Department, u.StudentID)
	u.IsActive = true
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapUniqueErr(err)
	}
	return nil
}

// mapUniqueErr turns a unique index violation into Conflict; two racing
// sign-ups with the same email or student id both pass the pre-insert
// checks and the loser lands here.
func mapUniqueErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("email or student id already exists: %w", status.ErrConflict)
	}
	return err
}

// ByID returns a user by id.
func (r *Repository) ByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// ByEmail returns a user by email.
func (r *Repository) ByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// ExistsByEmail reports whether any user has the email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// ExistsByStudentID reports whether any user has the student id.
func (r *Repository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE student_id = $1)`, studentID).Scan(&exists)
	return exists, err
}

func (r *Repository) queryUsers(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.Department, &u.StudentID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// All lists every user ordered by name.
func (r *Repository) All(ctx context.Context) ([]User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
}

// ByRole lists users holding the role.
func (r *Repository) ByRole(ctx context.Context, role Role) ([]User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY name`, role)
}

// ActiveByRole lists active users holding the role; used for broadcast
// recipient resolution.
func (r *Repository) ActiveByRole(ctx context.Context, roles ...Role) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active AND role = ANY($1) ORDER BY id`
	list := make([]string, len(roles))
	for i, role := range roles {
		list[i] = string(role)
	}
	rows, err := r.db.QueryContext(ctx, query, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.Department, &u.StudentID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ByDepartment lists users in the department.
func (r *Repository) ByDepartment(ctx context.Context, department string) ([]User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE department = $1 ORDER BY name`, department)
}

// Search matches name or email, case-insensitively.
func (r *Repository) Search(ctx context.Context, term string) ([]User, error) {
	return r.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		 ORDER BY name`, term)
}

// UpdateProfile rewrites mutable identity fields.
func (r *Repository) UpdateProfile(ctx context.Context, u *User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, department = $4, student_id = $5, updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Name, u.Email, u.Department, u.StudentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetActive flips the soft-disable flag.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetPassword replaces the stored credential hash.
func (r *Repository) SetPassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
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
		return fmt.Errorf("user: %w", status.ErrNotFound)
	}
	return nil
}

// RefreshToken is a server-side record backing JWT refresh rotation.
type RefreshToken struct {
	ID        string
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// SaveRefreshToken stores a refresh token for rotation checks.
func (r *Repository) SaveRefreshToken(ctx context.Context, id string, userID int64, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1,$2,$3,$4)
	`, id, userID, tokenHash, expiresAt)
	return err
}

// RefreshTokenByHash looks up a refresh token record.
func (r *Repository) RefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at
		FROM refresh_tokens WHERE token_hash = $1
	`, tokenHash).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("refresh token: %w", status.ErrNotFound)
		}
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken marks one token revoked.
func (r *Repository) RevokeRefreshToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1`, id)
	return err
}

// RevokeAllRefreshTokens revokes every live token for a user.
func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`, userID)
	return err
}
