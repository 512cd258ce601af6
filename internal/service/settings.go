package service

import (
	"context"
	"strings"

	"github.com/Dan9191/expense-service/internal/models"
)

var dateFormats = map[string]bool{
	"DD/MM/YYYY": true,
	"MM/DD/YYYY": true,
	"YYYY-MM-DD": true,
}

// Settings returns userID's settings, falling back to defaults
func (s *Service) Settings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	return s.repo.GetSettings(ctx, userID)
}

// UpdateSettings validates and stores userID's settings
func (s *Service) UpdateSettings(ctx context.Context, userID int64, in *models.SettingsUpdate) (*models.UserSettings, error) {
	current, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Currency != "" {
		current.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	}
	if in.DateFormat != "" {
		current.DateFormat = in.DateFormat
	}
	if in.MonthlyBudget != nil {
		current.MonthlyBudget = *in.MonthlyBudget
	}

	switch {
	case len(current.Currency) != 3:
		return nil, validationf("currency must be a 3-letter code")
	case !dateFormats[current.DateFormat]:
		return nil, validationf("unsupported date format %q", current.DateFormat)
	case current.MonthlyBudget.IsNegative():
		return nil, validationf("monthly budget must not be negative")
	}

	current.UserID = userID
	if err := s.repo.UpsertSettings(ctx, current); err != nil {
		return nil, err
	}
	s.log.Infof("Settings updated for user %d", userID)
	return current, nil
}

// ResetSettings drops userID's stored settings and returns the defaults
func (s *Service) ResetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	if err := s.repo.DeleteSettings(ctx, userID); err != nil {
		return nil, err
	}
	s.log.Infof("Settings reset for user %d", userID)
	return models.NewUserSettings(userID), nil
}
