package service

import (
	"context"
	"sort"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/shopspring/decimal"
)

const topCategories = 5

var hundred = decimal.NewFromInt(100)

// Summary returns current-month and current-year totals
func (s *Service) Summary(ctx context.Context, userID int64) (*models.Summary, error) {
	today := s.today()
	yearStart := models.NewDay(time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	yearEnd := models.NewDay(time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC))

	entries, err := s.repo.ExpensesBetween(ctx, userID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}

	sum := &models.Summary{}
	for _, e := range entries {
		thisMonth := e.Date.Month() == today.Month()
		switch e.Type {
		case models.TypeExpense:
			sum.YearlyExpenses = sum.YearlyExpenses.Add(e.Amount)
			if thisMonth {
				sum.MonthlyExpenses = sum.MonthlyExpenses.Add(e.Amount)
			}
		case models.TypeIncome:
			if thisMonth {
				sum.MonthlyIncome = sum.MonthlyIncome.Add(e.Amount)
			}
		case models.TypeSavings:
			if thisMonth {
				sum.MonthlySavings = sum.MonthlySavings.Add(e.Amount)
			}
		}
	}
	return sum, nil
}

// MonthlyDetail returns expense statistics for one month. A zero year or
// month means the current one.
func (s *Service) MonthlyDetail(ctx context.Context, userID int64, year int, month time.Month) (*models.MonthlyDetail, error) {
	today := s.today()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	if month < time.January || month > time.December {
		return nil, validationf("month must be between 1 and 12")
	}
	start, end := monthBounds(year, month)
	expenses, err := s.expensesOnly(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevStart, prevEnd := monthBounds(year, month-1)
	previous, err := s.expensesOnly(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	daysInMonth := end.Day()
	byDay := make([]decimal.Decimal, daysInMonth+1)
	seen := make([]bool, daysInMonth+1)
	total := decimal.Zero
	for _, e := range expenses {
		byDay[e.Date.Day()] = byDay[e.Date.Day()].Add(e.Amount)
		seen[e.Date.Day()] = true
		total = total.Add(e.Amount)
	}

	d := &models.MonthlyDetail{
		Year:               year,
		Month:              int(month),
		MonthName:          month.String(),
		TotalAmount:        total,
		AvgDaily:           total.Div(decimal.NewFromInt(int64(daysInMonth))).Round(2),
		TransactionCount:   len(expenses),
		CategoryBreakdown:  categoryBreakdown(expenses, total),
		PreviousMonthTotal: sumAmounts(previous),
		DailyExpenses:      make([]models.DayAmount, 0, daysInMonth),
	}
	d.PercentChange = percentChange(total, d.PreviousMonthTotal)

	first := true
	for day := 1; day <= daysInMonth; day++ {
		d.DailyExpenses = append(d.DailyExpenses, models.DayAmount{Day: day, Amount: byDay[day]})
		if !seen[day] {
			continue
		}
		if first || byDay[day].GreaterThan(d.MaxDaily) {
			d.MaxDaily = byDay[day]
		}
		if first || byDay[day].LessThan(d.MinDaily) {
			d.MinDaily = byDay[day]
		}
		first = false
	}
	return d, nil
}

// YearlyDetail returns expense statistics for one year; zero means the
// current year
func (s *Service) YearlyDetail(ctx context.Context, userID int64, year int) (*models.YearlyDetail, error) {
	if year == 0 {
		year = s.today().Year()
	}
	start, _ := monthBounds(year, time.January)
	_, end := monthBounds(year, time.December)
	expenses, err := s.expensesOnly(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	prevStart, _ := monthBounds(year-1, time.January)
	_, prevEnd := monthBounds(year-1, time.December)
	previous, err := s.expensesOnly(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	var byMonth [13]decimal.Decimal
	var seen [13]bool
	total := decimal.Zero
	for _, e := range expenses {
		byMonth[e.Date.Month()] = byMonth[e.Date.Month()].Add(e.Amount)
		seen[e.Date.Month()] = true
		total = total.Add(e.Amount)
	}

	d := &models.YearlyDetail{
		Year:              year,
		TotalAmount:       total,
		AvgMonthly:        total.Div(decimal.NewFromInt(12)).Round(2),
		TransactionCount:  len(expenses),
		CategoryBreakdown: categoryBreakdown(expenses, total),
		PreviousYearTotal: sumAmounts(previous),
		MonthlyExpenses:   make([]models.MonthAmount, 0, 12),
	}
	d.PercentChange = percentChange(total, d.PreviousYearTotal)

	first := true
	for m := time.January; m <= time.December; m++ {
		ma := models.MonthAmount{Month: m.String()[:3], MonthNumber: int(m), Amount: byMonth[m]}
		d.MonthlyExpenses = append(d.MonthlyExpenses, ma)
		if m == time.January || ma.Amount.GreaterThan(d.HighestMonth.Amount) {
			d.HighestMonth = ma
		}
		if m == time.January || ma.Amount.LessThan(d.LowestMonth.Amount) {
			d.LowestMonth = ma
		}
		if !seen[m] {
			continue
		}
		if first || ma.Amount.GreaterThan(d.MaxMonthly) {
			d.MaxMonthly = ma.Amount
		}
		if first || ma.Amount.LessThan(d.MinMonthly) {
			d.MinMonthly = ma.Amount
		}
		first = false
	}
	return d, nil
}

// DailySeries returns one point per day in [from, to] with the day's total
// EXPENSE amount; days without entries are zero. A zero to means today and a
// zero from the DefaultHistoryDays days ending at to.
func (s *Service) DailySeries(ctx context.Context, userID int64, from, to models.Day) ([]models.DailyPoint, error) {
	if to.IsZero() {
		to = s.today()
	}
	if from.IsZero() {
		from = to.AddDays(-(DefaultHistoryDays - 1))
	}
	if to.Before(from.Time) {
		return nil, validationf("to must not be before from")
	}
	expenses, err := s.expensesOnly(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return dailySeries(expenses, from, to), nil
}

func dailySeries(expenses []models.Expense, from, to models.Day) []models.DailyPoint {
	totals := make(map[string]decimal.Decimal, len(expenses))
	for _, e := range expenses {
		totals[e.Date.String()] = totals[e.Date.String()].Add(e.Amount)
	}

	var out []models.DailyPoint
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		amount, _ := totals[d.String()].Float64()
		out = append(out, models.DailyPoint{Date: d, Amount: amount})
	}
	return out
}

func (s *Service) expensesOnly(ctx context.Context, userID int64, from, to models.Day) ([]models.Expense, error) {
	entries, err := s.repo.ExpensesBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Type == models.TypeExpense {
			out = append(out, e)
		}
	}
	return out, nil
}

func monthBounds(year int, month time.Month) (models.Day, models.Day) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return models.NewDay(start), models.NewDay(start.AddDate(0, 1, -1))
}

func sumAmounts(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func percentChange(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(2)
}

func categoryBreakdown(expenses []models.Expense, total decimal.Decimal) []models.CategoryShare {
	byCategory := map[string]decimal.Decimal{}
	for _, e := range expenses {
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}

	shares := make([]models.CategoryShare, 0, len(byCategory))
	for name, value := range byCategory {
		share := models.CategoryShare{Name: name, Value: value}
		if total.IsPositive() {
			share.Percentage = value.Div(total).Mul(hundred).Round(0).IntPart()
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Value.Equal(shares[j].Value) {
			return shares[i].Value.GreaterThan(shares[j].Value)
		}
		return shares[i].Name < shares[j].Name
	})
	if len(shares) > topCategories {
		shares = shares[:topCategories]
	}
	return shares
}
