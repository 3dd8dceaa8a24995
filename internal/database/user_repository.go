package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabday/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "chat_id, username, severity, notifications_enabled, notification_hour, created_at, updated_at"

// GetByID returns a user by chat ID, or nil when the chat never registered
func (r *UserRepository) GetByID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE chat_id = ?")
	err := r.db.GetContext(ctx, &user, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY chat_id"); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// Create inserts a new user or refreshes the username of an existing one.
// Settings of an existing user are left alone.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (chat_id, username, severity, notifications_enabled, notification_hour)
		VALUES (:chat_id, :username, :severity, :notifications_enabled, :notification_hour)
		ON CONFLICT (chat_id) DO UPDATE SET
			username = excluded.username,
			updated_at = CURRENT_TIMESTAMP
	`, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateSeverity stores the user's workload tier
func (r *UserRepository) UpdateSeverity(ctx context.Context, chatID int64, severity models.Severity) error {
	query := r.db.Rebind("UPDATE users SET severity = ?, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?")
	if _, err := r.db.ExecContext(ctx, query, string(severity), chatID); err != nil {
		return fmt.Errorf("failed to update severity: %w", err)
	}
	return nil
}

// UpdateNotifications stores reminder settings
func (r *UserRepository) UpdateNotifications(ctx context.Context, chatID int64, enabled bool, hour int) error {
	query := r.db.Rebind(`
		UPDATE users SET notifications_enabled = ?, notification_hour = ?, updated_at = CURRENT_TIMESTAMP
		WHERE chat_id = ?
	`)
	if _, err := r.db.ExecContext(ctx, query, enabled, hour, chatID); err != nil {
		return fmt.Errorf("failed to update notifications: %w", err)
	}
	return nil
}

// GetUsersForNotification returns users who have notifications enabled for the given hour
func (r *UserRepository) GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	query := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE notifications_enabled = ? AND notification_hour = ? ORDER BY chat_id")
	if err := r.db.SelectContext(ctx, &users, query, true, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}
	return users, nil
}

// Delete removes a user
func (r *UserRepository) Delete(ctx context.Context, chatID int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM users WHERE chat_id = ?"), chatID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
