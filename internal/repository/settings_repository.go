package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SettingsRepository is a key-value store over the MySQL settings table.
// It backs the custom month catalog.
type SettingsRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// Get returns the raw value stored under key, or nil when absent
func (r *SettingsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := "SELECT value FROM settings WHERE `key` = ?"

	var value []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, nil
}

// Set upserts the value stored under key
func (r *SettingsRepository) Set(ctx context.Context, key string, value []byte) error {
	query := "INSERT INTO settings (`key`, value, created_at, updated_at) VALUES (?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)"

	now := r.now()
	if _, err := r.db.ExecContext(ctx, query, key, value, now, now); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}

// Delete removes key; deleting an absent key is not an error
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	query := "DELETE FROM settings WHERE `key` = ?"

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}

	return nil
}
