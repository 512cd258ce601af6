package models

import "github.com/shopspring/decimal"

// Summary represents current month and year totals
type Summary struct {
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	YearlyExpenses  decimal.Decimal `json:"yearly_expenses"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlySavings  decimal.Decimal `json:"monthly_savings"`
}

// CategoryShare is one entry of a category breakdown
type CategoryShare struct {
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	Percentage int64           `json:"percentage"`
}

// DayAmount is the total spent on one day of a month
type DayAmount struct {
	Day    int             `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthAmount is the total spent in one month of a year
type MonthAmount struct {
	Month       string          `json:"month"`
	MonthNumber int             `json:"month_number"`
	Amount      decimal.Decimal `json:"amount"`
}

// MonthlyDetail represents expense statistics for a single month
type MonthlyDetail struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	MonthName          string          `json:"month_name"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	AvgDaily           decimal.Decimal `json:"avg_daily"`
	MaxDaily           decimal.Decimal `json:"max_daily"`
	MinDaily           decimal.Decimal `json:"min_daily"`
	TransactionCount   int             `json:"transaction_count"`
	CategoryBreakdown  []CategoryShare `json:"category_breakdown"`
	DailyExpenses      []DayAmount     `json:"daily_expenses"`
	PreviousMonthTotal decimal.Decimal `json:"previous_month_total"`
	PercentChange      decimal.Decimal `json:"percent_change"`
}

// YearlyDetail represents expense statistics for a single year
type YearlyDetail struct {
	Year              int             `json:"year"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	AvgMonthly        decimal.Decimal `json:"avg_monthly"`
	MaxMonthly        decimal.Decimal `json:"max_monthly"`
	MinMonthly        decimal.Decimal `json:"min_monthly"`
	TransactionCount  int             `json:"transaction_count"`
	CategoryBreakdown []CategoryShare `json:"category_breakdown"`
	MonthlyExpenses   []MonthAmount   `json:"monthly_expenses"`
	PreviousYearTotal decimal.Decimal `json:"previous_year_total"`
	PercentChange     decimal.Decimal `json:"percent_change"`
	HighestMonth      MonthAmount     `json:"highest_month"`
	LowestMonth       MonthAmount     `json:"lowest_month"`
}

// BudgetProjection compares month-to-date spending plus a projection against the budget
type BudgetProjection struct {
	Month         string          `json:"month"`
	Currency      string          `json:"currency"`
	Budget        decimal.Decimal `json:"budget"`
	Spent         decimal.Decimal `json:"spent"`
	Projected     decimal.Decimal `json:"projected"`
	RemainingDays int             `json:"remaining_days"`
	OverBudget    bool            `json:"over_budget"`
}
