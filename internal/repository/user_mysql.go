package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mc-exchange-api/internal/model"
)

// MySQLUserRepository implements UserRepository against the accounts
// database. User ids come from the external identity provider; this table
// only carries what the provider does not: display name and role.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQL user repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// CreateUserTable creates the users table if missing.
func CreateUserTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(32) NOT NULL DEFAULT 'other',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := db.Exec(query)
	return err
}

// GetRole returns the stored role for a user id. Users without a row are
// "other"; admin access always requires an explicit row.
func (r *MySQLUserRepository) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.RoleOther, nil
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}

// GetRoles returns roles for a batch of user ids.
func (r *MySQLUserRepository) GetRoles(ctx context.Context, userIDs []string) (map[string]string, error) {
	roles := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return roles, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, role FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, role string
		if err := rows.Scan(&id, &role); err != nil {
			return nil, fmt.Errorf("failed to scan user role: %w", err)
		}
		roles[id] = role
	}
	return roles, rows.Err()
}

// SetRole upserts the role for a user id.
func (r *MySQLUserRepository) SetRole(ctx context.Context, userID, role string) error {
	query := `
		INSERT INTO users (id, role) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE role = VALUES(role)`
	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}

// GetName returns the stored display name for a user id.
func (r *MySQLUserRepository) GetName(ctx context.Context, userID string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, userID).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("user not found: %s", userID)
		}
		return "", fmt.Errorf("failed to get user name: %w", err)
	}
	return name, nil
}

// Ensure MySQLUserRepository implements UserRepository
var _ UserRepository = (*MySQLUserRepository)(nil)
