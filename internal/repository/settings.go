package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/expense-service/internal/models"
)

// GetSettings returns a user's settings, or defaults when none are stored
func (r *Repository) GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	s := &models.UserSettings{UserID: userID}
	query := `
		SELECT currency, date_format, monthly_budget, created_at, updated_at
		FROM expense.user_settings
		WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.Currency, &s.DateFormat, &s.MonthlyBudget, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewUserSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// UpsertSettings stores a user's settings
func (r *Repository) UpsertSettings(ctx context.Context, s *models.UserSettings) error {
	query := `
		INSERT INTO expense.user_settings (user_id, currency, date_format, monthly_budget, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET currency = EXCLUDED.currency,
		    date_format = EXCLUDED.date_format,
		    monthly_budget = EXCLUDED.monthly_budget,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.UserID, s.Currency, s.DateFormat, s.MonthlyBudget).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// DeleteSettings removes a user's stored settings so defaults apply again.
// Deleting absent settings is not an error.
func (r *Repository) DeleteSettings(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expense.user_settings WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// ListBudgetSubjects returns every user with their effective budget settings
func (r *Repository) ListBudgetSubjects(ctx context.Context) ([]models.BudgetSubject, error) {
	query := `
		SELECT u.id, u.email, u.first_name,
		       COALESCE(s.currency, $1), COALESCE(s.monthly_budget, $2)
		FROM expense.users u
		LEFT JOIN expense.user_settings s ON s.user_id = u.id
		ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, query, models.DefaultCurrency, models.DefaultMonthlyBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to list budget subjects: %w", err)
	}
	defer rows.Close()

	var out []models.BudgetSubject
	for rows.Next() {
		var b models.BudgetSubject
		if err := rows.Scan(&b.UserID, &b.Email, &b.FirstName, &b.Currency, &b.MonthlyBudget); err != nil {
			return nil, fmt.Errorf("failed to scan budget subject: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read budget subjects: %w", err)
	}
	return out, nil
}
