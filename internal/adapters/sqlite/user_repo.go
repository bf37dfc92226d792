package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/hubledger/internal/core/errs"
	"github.com/example/hubledger/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	var isAdmin int
	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, hub_name, COALESCE(is_admin, 0), COALESCE(created_at, '') FROM users WHERE username = ?",
		username,
	).Scan(&record.ID, &record.Username, &record.PasswordHash, &record.HubName, &isAdmin, &record.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user '%s': %w", username, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	record.IsAdmin = isAdmin != 0
	return record, nil
}

// List retrieves all users ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, password_hash, hub_name, COALESCE(is_admin, 0), COALESCE(created_at, '') FROM users ORDER BY username ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		var isAdmin int
		record := &secondary.UserRecord{}
		if err := rows.Scan(&record.ID, &record.Username, &record.PasswordHash, &record.HubName, &isAdmin, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		record.IsAdmin = isAdmin != 0
		users = append(users, record)
	}

	return users, rows.Err()
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, hub_name, is_admin) VALUES (?, ?, ?, ?)",
		user.Username, user.PasswordHash, user.HubName, boolToInt(user.IsAdmin),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("username '%s' already exists: %w", user.Username, errs.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID, _ = result.LastInsertId()
	return nil
}

// Ensure UserRepository implements the interface.
var _ secondary.UserRepository = (*UserRepository)(nil)
