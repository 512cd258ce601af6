package email

import (
	"strings"
	"testing"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/shopspring/decimal"
)

func TestBudgetAlertBody(t *testing.T) {
	projected := &models.BudgetProjection{
		Month:     "2024-05",
		Currency:  "INR",
		Budget:    decimal.NewFromInt(12000),
		Spent:     decimal.NewFromInt(9000),
		Projected: decimal.RequireFromString("15500.5"),
	}
	body := BudgetAlertBody("Asha", projected)
	for _, want := range []string{"Dear Asha", "9000.00 INR", "15500.50 INR", "12000.00 INR"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if got := BudgetAlertSubject(projected); got != "Projected budget overrun for 2024-05" {
		t.Errorf("subject = %q", got)
	}

	exceeded := *projected
	exceeded.Spent = decimal.NewFromInt(13000)
	if got := BudgetAlertSubject(&exceeded); got != "Budget exceeded for 2024-05" {
		t.Errorf("subject = %q", got)
	}
	if body := BudgetAlertBody("Asha", &exceeded); strings.Contains(body, "projected") {
		t.Errorf("exceeded alert should not mention a projection:\n%s", body)
	}
}
