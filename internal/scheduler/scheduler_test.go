package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fakeBudgets struct {
	subjects []models.BudgetSubject
	over     map[int64]bool
	fail     map[int64]bool
}

func (f *fakeBudgets) BudgetSubjects(context.Context) ([]models.BudgetSubject, error) {
	return f.subjects, nil
}

func (f *fakeBudgets) ProjectBudget(_ context.Context, s models.BudgetSubject) (*models.BudgetProjection, error) {
	if f.fail[s.UserID] {
		return nil, errors.New("db down")
	}
	return &models.BudgetProjection{Month: "2024-05", Budget: s.MonthlyBudget, OverBudget: f.over[s.UserID]}, nil
}

type fakeNotifier struct {
	sent []string
	fail map[string]bool
}

func (f *fakeNotifier) SendBudgetAlert(to, _ string, _ *models.BudgetProjection) error {
	if f.fail[to] {
		return errors.New("smtp refused")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSweeper struct{ idle time.Duration }

func (f *fakeSweeper) Sweep(idle time.Duration) int {
	f.idle = idle
	return 3
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestCheckBudgets(t *testing.T) {
	subject := func(id int64, email string) models.BudgetSubject {
		return models.BudgetSubject{UserID: id, Email: email, MonthlyBudget: decimal.NewFromInt(100)}
	}
	budgets := &fakeBudgets{
		subjects: []models.BudgetSubject{
			subject(1, "over@example.com"),
			subject(2, "under@example.com"),
			subject(3, "broken@example.com"),
			subject(4, "bounce@example.com"),
			subject(5, "also-over@example.com"),
		},
		over: map[int64]bool{1: true, 3: true, 4: true, 5: true},
		fail: map[int64]bool{3: true},
	}
	notifier := &fakeNotifier{fail: map[string]bool{"bounce@example.com": true}}

	s := NewScheduler(context.Background(), budgets, notifier, &fakeSweeper{}, time.Minute, quietLogger())
	if got := s.CheckBudgets(); got != 2 {
		t.Errorf("sent %d alerts, want 2", got)
	}
	want := []string{"over@example.com", "also-over@example.com"}
	if len(notifier.sent) != len(want) {
		t.Fatalf("sent to %v, want %v", notifier.sent, want)
	}
	for i := range want {
		if notifier.sent[i] != want[i] {
			t.Errorf("alert %d went to %s, want %s", i, notifier.sent[i], want[i])
		}
	}
}

func TestSweepSessions(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewScheduler(context.Background(), &fakeBudgets{}, &fakeNotifier{}, sweeper, 30*time.Minute, quietLogger())
	if got := s.SweepSessions(); got != 3 {
		t.Errorf("swept %d, want 3", got)
	}
	if sweeper.idle != 30*time.Minute {
		t.Errorf("idle = %v, want 30m", sweeper.idle)
	}
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeBudgets{}, &fakeNotifier{}, &fakeSweeper{}, time.Minute, quietLogger())
	if err := s.RegisterAll("0 0 20 * * *", "0 */5 * * * *"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("registered %d entries, want 2", n)
	}

	bad := NewScheduler(context.Background(), &fakeBudgets{}, &fakeNotifier{}, &fakeSweeper{}, time.Minute, quietLogger())
	if err := bad.RegisterAll("every evening", "0 */5 * * * *"); err == nil {
		t.Error("expected an error for an invalid cron spec")
	}
}
