package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/expense-service/internal/models"
)

const expenseColumns = `id, user_id, type, description, amount, date, category, payment_method, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	err := row.Scan(&e.ID, &e.UserID, &e.Type, &e.Description, &e.Amount, &e.Date,
		&e.Category, &e.PaymentMethod, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateExpense inserts an expense owned by e.UserID
func (r *Repository) CreateExpense(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expense.expenses (user_id, type, description, amount, date, category, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, e.UserID, e.Type, e.Description, e.Amount, e.Date,
		e.Category, e.PaymentMethod).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// UpdateExpense overwrites an expense owned by e.UserID
func (r *Repository) UpdateExpense(ctx context.Context, e *models.Expense) error {
	query := `
		UPDATE expense.expenses
		SET type = $3, description = $4, amount = $5, date = $6, category = $7, payment_method = $8
		WHERE id = $1 AND user_id = $2
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.UserID, e.Type, e.Description, e.Amount, e.Date,
		e.Category, e.PaymentMethod).Scan(&e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %d %w", e.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return nil
}

// FindExpense retrieves one of a user's expenses
func (r *Repository) FindExpense(ctx context.Context, userID, id int64) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expense.expenses WHERE id = $1 AND user_id = $2`
	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return e, nil
}

// DeleteExpense removes one of a user's expenses
func (r *Repository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expense.expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d %w", id, ErrNotFound)
	}
	return nil
}

// ListExpenses returns one page of a user's expenses, newest first, and the
// total number of matching rows
func (r *Repository) ListExpenses(ctx context.Context, userID int64, f models.ExpenseFilter) ([]models.Expense, int, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expense.expenses WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	args = append(args, f.Size, f.Page*f.Size)
	query := fmt.Sprintf(`SELECT %s FROM expense.expenses WHERE %s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`,
		expenseColumns, cond, len(args)-1, len(args))
	items, err := r.queryExpenses(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExpensesBetween returns all of a user's entries dated within [from, to],
// oldest first
func (r *Repository) ExpensesBetween(ctx context.Context, userID int64, from, to models.Day) ([]models.Expense, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expense.expenses
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, id`
	return r.queryExpenses(ctx, query, userID, from, to)
}

func (r *Repository) queryExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	items := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	return items, nil
}
