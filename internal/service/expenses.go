package service

import (
	"context"
	"strings"

	"github.com/Dan9191/expense-service/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func normalizeExpense(e *models.Expense) error {
	e.Type = models.ExpenseType(strings.ToUpper(strings.TrimSpace(string(e.Type))))
	e.Description = strings.TrimSpace(e.Description)
	e.Category = strings.TrimSpace(e.Category)
	e.PaymentMethod = strings.TrimSpace(e.PaymentMethod)

	switch {
	case !e.Type.Valid():
		return validationf("type must be EXPENSE, SAVINGS or INCOME")
	case e.Description == "":
		return validationf("description is required")
	case e.Category == "":
		return validationf("category is required")
	case e.PaymentMethod == "":
		return validationf("payment method is required")
	case e.Amount.IsNegative():
		return validationf("amount must not be negative")
	case e.Date.IsZero():
		return validationf("date is required")
	}
	return nil
}

// CreateExpense records a new entry for userID
func (s *Service) CreateExpense(ctx context.Context, userID int64, e *models.Expense) (*models.Expense, error) {
	if err := normalizeExpense(e); err != nil {
		return nil, err
	}
	e.UserID = userID
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	s.log.Infof("Expense %d created for user %d", e.ID, userID)
	return e, nil
}

// UpdateExpense replaces one of userID's entries
func (s *Service) UpdateExpense(ctx context.Context, userID, id int64, e *models.Expense) (*models.Expense, error) {
	if err := normalizeExpense(e); err != nil {
		return nil, err
	}
	e.ID = id
	e.UserID = userID
	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Expense returns one of userID's entries
func (s *Service) Expense(ctx context.Context, userID, id int64) (*models.Expense, error) {
	return s.repo.FindExpense(ctx, userID, id)
}

// DeleteExpense removes one of userID's entries
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Expense %d deleted for user %d", id, userID)
	return nil
}

// ListExpenses pages through userID's entries, newest first
func (s *Service) ListExpenses(ctx context.Context, userID int64, f models.ExpenseFilter) (*models.ExpensePage, error) {
	if f.Page < 0 {
		return nil, validationf("page must not be negative")
	}
	if f.Size <= 0 {
		f.Size = defaultPageSize
	}
	if f.Size > maxPageSize {
		f.Size = maxPageSize
	}
	if f.From != nil && f.To != nil && f.To.Before(f.From.Time) {
		return nil, validationf("to must not be before from")
	}

	items, total, err := s.repo.ListExpenses(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return &models.ExpensePage{Items: items, Page: f.Page, Size: f.Size, Total: total}, nil
}
