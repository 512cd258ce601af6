package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/expense-service/internal/forecast"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DefaultForecastPeriod = 14
	DefaultHistoryDays    = 30
	MaxForecastPeriod     = 365
	maxHistoryDays        = 731
)

// ForecastRequest selects the history window and projection. Zero values pick
// the defaults: the last DefaultHistoryDays days ending today, linear,
// DefaultForecastPeriod days.
type ForecastRequest struct {
	From   models.Day
	To     models.Day
	Method forecast.Method
	Period int
}

// Forecast projects userID's daily expenses forward. A window with fewer than
// forecast.MinHistory days yields an empty forecast with Sufficient unset.
func (s *Service) Forecast(ctx context.Context, userID int64, req ForecastRequest) (*models.ForecastResult, error) {
	if req.To.IsZero() {
		req.To = s.today()
	}
	if req.From.IsZero() {
		req.From = req.To.AddDays(-(DefaultHistoryDays - 1))
	}
	if req.Period == 0 {
		req.Period = DefaultForecastPeriod
	}
	if req.Period < 1 || req.Period > MaxForecastPeriod {
		return nil, validationf("period must be between 1 and %d", MaxForecastPeriod)
	}
	if req.To.Before(req.From.Time) {
		return nil, validationf("to must not be before from")
	}
	if days := int(req.To.Sub(req.From.Time).Hours()/24) + 1; days > maxHistoryDays {
		return nil, validationf("history window must not exceed %d days", maxHistoryDays)
	}

	history, err := s.DailySeries(ctx, userID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	return &models.ForecastResult{
		Method:     req.Method.String(),
		Period:     req.Period,
		From:       req.From,
		To:         req.To,
		Sufficient: len(history) >= forecast.MinHistory,
		History:    history,
		Forecasts:  forecast.Forecast(history, req.Method, req.Period),
	}, nil
}

// BudgetSubjects lists the users eligible for budget alerts
func (s *Service) BudgetSubjects(ctx context.Context) ([]models.BudgetSubject, error) {
	return s.repo.ListBudgetSubjects(ctx)
}

// ProjectMonth projects the current month for userID using their settings
func (s *Service) ProjectMonth(ctx context.Context, userID int64) (*models.BudgetProjection, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ProjectBudget(ctx, models.BudgetSubject{
		UserID:        userID,
		Currency:      settings.Currency,
		MonthlyBudget: settings.MonthlyBudget,
	})
}

// ProjectBudget adds a linear projection of the rest of the current month to
// what the subject has spent so far
func (s *Service) ProjectBudget(ctx context.Context, subject models.BudgetSubject) (*models.BudgetProjection, error) {
	today := s.today()
	start, end := monthBounds(today.Year(), today.Month())

	expenses, err := s.expensesOnly(ctx, subject.UserID, start, today)
	if err != nil {
		return nil, err
	}
	spent := sumAmounts(expenses)

	p := &models.BudgetProjection{
		Month:         fmt.Sprintf("%04d-%02d", today.Year(), int(today.Month())),
		Currency:      subject.Currency,
		Budget:        subject.MonthlyBudget,
		Spent:         spent,
		Projected:     spent,
		RemainingDays: end.Day() - today.Day(),
	}
	for _, f := range forecast.Forecast(dailySeries(expenses, start, today), forecast.Linear, p.RemainingDays) {
		p.Projected = p.Projected.Add(decimal.NewFromFloat(f.Predicted))
	}
	p.Projected = p.Projected.Round(2)
	p.OverBudget = subject.MonthlyBudget.IsPositive() && p.Projected.GreaterThan(subject.MonthlyBudget)
	return p, nil
}
