package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies a ledger entry
type ExpenseType string

const (
	TypeExpense ExpenseType = "EXPENSE"
	TypeSavings ExpenseType = "SAVINGS"
	TypeIncome  ExpenseType = "INCOME"
)

// Valid reports whether t is one of the known entry types
func (t ExpenseType) Valid() bool {
	switch t {
	case TypeExpense, TypeSavings, TypeIncome:
		return true
	}
	return false
}

// Expense represents a single ledger entry recorded by a user
type Expense struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Type          ExpenseType     `json:"type"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Day             `json:"date"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ExpenseFilter narrows an expense listing
type ExpenseFilter struct {
	From *Day
	To   *Day
	Page int
	Size int
}

// ExpensePage is one page of an expense listing
type ExpensePage struct {
	Items []Expense `json:"items"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Total int       `json:"total"`
}
