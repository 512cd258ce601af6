package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/Dan9191/expense-service/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fixedRates map[string]decimal.Decimal

func (f fixedRates) Convert(_ context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	return amount.Mul(f[from]).Div(f[to]), nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		HMACSecret:         "hmac-secret",
		EncryptionKey:      "000102030405060708090a0b0c0d0e0f",
		LoginRoute:         "/login",
		SessionIdleTimeout: time.Minute,
	}
}

// newTestService returns a service whose clock is fixed at now
func newTestService(t *testing.T, now time.Time) (*Service, *servicetest.Store) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	store := servicetest.NewStore()
	rates := fixedRates{"RUB": decimal.NewFromInt(1), "USD": decimal.NewFromInt(90), "INR": decimal.RequireFromString("1.125")}
	svc, err := NewService(store, rates, log, testConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc, store
}

func day(s string) models.Day {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func addExpense(t *testing.T, svc *Service, userID int64, typ models.ExpenseType, date, category string, amount int64) {
	t.Helper()
	_, err := svc.CreateExpense(context.Background(), userID, &models.Expense{
		Type:          typ,
		Description:   category + " on " + date,
		Amount:        decimal.NewFromInt(amount),
		Date:          day(date),
		Category:      category,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
}
