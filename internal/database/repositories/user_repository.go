package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"session-auth/internal/database"
	"session-auth/pkg/token"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

const userColumns = `id, username, display_name, password_hash, role, aux_id,
               is_active, last_login, created_at, updated_at`

type UserRepository struct {
	db      *sql.DB
	dialect string
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, dialect: database.DialectOf(db)}
}

func (r *UserRepository) rebind(query string) string {
	return database.Rebind(r.dialect, query)
}

// Create inserts user, assigning a new id when none is set.
func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.rebind(`
        INSERT INTO users (id, username, display_name, password_hash, role, aux_id, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.DisplayName, user.PasswordHash,
		string(user.Role), user.AuxID, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername returns an active user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*database.User, error) {
	query := r.rebind(`SELECT ` + userColumns + ` FROM users WHERE username = ? AND is_active = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, username, true))
}

// GetByID retrieves a user by ID regardless of its active flag.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*database.User, error) {
	query := r.rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// Exists reports whether any user, active or not, holds username.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var count int
	query := r.rebind(`SELECT COUNT(1) FROM users WHERE username = ?`)
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// List returns users ordered by creation time, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role token.Role, limit, offset int) ([]database.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}

	if role != "" {
		query += " AND role = ?"
		args = append(args, string(role))
	}

	query += " ORDER BY created_at DESC, username ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []database.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// SetActive activates or deactivates a user.
func (r *UserRepository) SetActive(ctx context.Context, userID string, active bool) error {
	query := r.rebind(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`)
	return r.execOne(ctx, query, active, time.Now().UTC(), userID)
}

// UpdateLastLogin stamps the user's last successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	query := r.rebind(`UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`)
	return r.execOne(ctx, query, now, now, userID)
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*database.User, error) {
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return user, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (*database.User, error) {
	var user database.User
	var role string
	err := s.Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash,
		&role, &user.AuxID, &user.IsActive, &user.LastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Role = token.Role(role)
	return &user, nil
}
