package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Budgeter projects users' months against their budgets. *service.Service
// implements it.
type Budgeter interface {
	BudgetSubjects(ctx context.Context) ([]models.BudgetSubject, error)
	ProjectBudget(ctx context.Context, subject models.BudgetSubject) (*models.BudgetProjection, error)
}

// Notifier delivers budget alerts. *email.Sender implements it.
type Notifier interface {
	SendBudgetAlert(to, name string, p *models.BudgetProjection) error
}

// Sweeper closes idle sessions. *session.Registry implements it.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// Scheduler manages all cron tasks
type Scheduler struct {
	Cron     *cron.Cron
	Budgets  Budgeter
	Notifier Notifier
	Sessions Sweeper
	Idle     time.Duration
	Ctx      context.Context
	log      *logrus.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(ctx context.Context, b Budgeter, n Notifier, s Sweeper, idle time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Budgets:  b,
		Notifier: n,
		Sessions: s,
		Idle:     idle,
		Ctx:      ctx,
		log:      log,
	}
}

// RegisterAll registers the budget alert and session sweep tasks
func (s *Scheduler) RegisterAll(budgetCron, sweepCron string) error {
	if _, err := s.Cron.AddFunc(budgetCron, func() { s.CheckBudgets() }); err != nil {
		return fmt.Errorf("register budget task: %w", err)
	}
	if _, err := s.Cron.AddFunc(sweepCron, func() { s.SweepSessions() }); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// CheckBudgets emails every user whose month is projected over budget and
// returns how many alerts were sent. One user's failure does not stop the run.
func (s *Scheduler) CheckBudgets() int {
	s.log.Info("Running budget check")
	subjects, err := s.Budgets.BudgetSubjects(s.Ctx)
	if err != nil {
		s.log.Errorf("Failed to list budget subjects: %v", err)
		return 0
	}

	sent := 0
	for _, subject := range subjects {
		p, err := s.Budgets.ProjectBudget(s.Ctx, subject)
		if err != nil {
			s.log.Errorf("Failed to project budget for user %d: %v", subject.UserID, err)
			continue
		}
		if !p.OverBudget {
			continue
		}
		if err := s.Notifier.SendBudgetAlert(subject.Email, subject.FirstName, p); err != nil {
			s.log.Errorf("Failed to alert user %d: %v", subject.UserID, err)
			continue
		}
		sent++
	}
	s.log.Infof("Budget check done: %d alerts sent", sent)
	return sent
}

// SweepSessions closes sessions idle longer than Idle
func (s *Scheduler) SweepSessions() int {
	return s.Sessions.Sweep(s.Idle)
}
