package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied when a user has no stored settings
const (
	DefaultCurrency   = "INR"
	DefaultDateFormat = "DD/MM/YYYY"
)

// DefaultMonthlyBudget is the budget assigned to new users
var DefaultMonthlyBudget = decimal.NewFromInt(12000)

// UserSettings holds per-user display and budget preferences
type UserSettings struct {
	UserID        int64           `json:"user_id"`
	Currency      string          `json:"currency"`
	DateFormat    string          `json:"date_format"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SettingsUpdate is a partial settings change. Empty strings and a nil budget
// leave the stored value unchanged; a zero budget disables budget alerts.
type SettingsUpdate struct {
	Currency      string           `json:"currency"`
	DateFormat    string           `json:"date_format"`
	MonthlyBudget *decimal.Decimal `json:"monthly_budget"`
}

// NewUserSettings returns settings populated with defaults
func NewUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Currency:      DefaultCurrency,
		DateFormat:    DefaultDateFormat,
		MonthlyBudget: DefaultMonthlyBudget,
	}
}

// BudgetSubject is a user eligible for budget alerts
type BudgetSubject struct {
	UserID        int64
	Email         string
	FirstName     string
	Currency      string
	MonthlyBudget decimal.Decimal
}
