package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveRemembered stores an encrypted remember-me artifact with its MAC
func (r *Repository) SaveRemembered(ctx context.Context, userID int64, key, value, mac string) error {
	query := `
		INSERT INTO expense.remembered (user_id, key, value, mac, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, key) DO UPDATE
		SET value = EXCLUDED.value, mac = EXCLUDED.mac, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, key, value, mac); err != nil {
		return fmt.Errorf("failed to save remembered %s: %w", key, err)
	}
	return nil
}

// FindRemembered returns a stored artifact and its MAC
func (r *Repository) FindRemembered(ctx context.Context, userID int64, key string) (value, mac string, err error) {
	query := `SELECT value, mac FROM expense.remembered WHERE user_id = $1 AND key = $2`
	err = r.db.QueryRowContext(ctx, query, userID, key).Scan(&value, &mac)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("remembered %s %w", key, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to find remembered %s: %w", key, err)
	}
	return value, mac, nil
}

// DeleteRemembered removes an artifact. Removing an absent key is not an error.
func (r *Repository) DeleteRemembered(ctx context.Context, userID int64, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense.remembered WHERE user_id = $1 AND key = $2`, userID, key); err != nil {
		return fmt.Errorf("failed to delete remembered %s: %w", key, err)
	}
	return nil
}
