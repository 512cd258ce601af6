package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendBudgetAlert warns a user that their month is projected to exceed budget
func (s *Sender) SendBudgetAlert(to, name string, p *models.BudgetProjection) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = BudgetAlertSubject(p)
	e.Text = []byte(BudgetAlertBody(name, p))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send budget alert to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// BudgetAlertSubject distinguishes an exceeded budget from a projected overrun
func BudgetAlertSubject(p *models.BudgetProjection) string {
	if p.Spent.GreaterThan(p.Budget) {
		return fmt.Sprintf("Budget exceeded for %s", p.Month)
	}
	return fmt.Sprintf("Projected budget overrun for %s", p.Month)
}

// BudgetAlertBody renders the plain-text alert
func BudgetAlertBody(name string, p *models.BudgetProjection) string {
	body := fmt.Sprintf("Dear %s,\n\n", name)
	if p.Spent.GreaterThan(p.Budget) {
		body += fmt.Sprintf(
			"You have spent %s %s so far in %s, above your monthly budget of %s %s.\n",
			p.Spent.StringFixed(2), p.Currency, p.Month, p.Budget.StringFixed(2), p.Currency,
		)
	} else {
		body += fmt.Sprintf(
			"You have spent %s %s so far in %s.\n"+
				"At your current pace you are projected to spend %s %s by the end of the month,\n"+
				"above your monthly budget of %s %s.\n",
			p.Spent.StringFixed(2), p.Currency, p.Month,
			p.Projected.StringFixed(2), p.Currency,
			p.Budget.StringFixed(2), p.Currency,
		)
	}
	body += "\nBest regards,\nExpense Tracker"
	return body
}
