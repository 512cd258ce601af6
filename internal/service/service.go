package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")
)

// Store is the persistence the service depends on. *repository.Repository
// implements it.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)

	CreateExpense(ctx context.Context, e *models.Expense) error
	UpdateExpense(ctx context.Context, e *models.Expense) error
	FindExpense(ctx context.Context, userID, id int64) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
	ListExpenses(ctx context.Context, userID int64, f models.ExpenseFilter) ([]models.Expense, int, error)
	ExpensesBetween(ctx context.Context, userID int64, from, to models.Day) ([]models.Expense, error)

	GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error)
	UpsertSettings(ctx context.Context, s *models.UserSettings) error
	DeleteSettings(ctx context.Context, userID int64) error
	ListBudgetSubjects(ctx context.Context) ([]models.BudgetSubject, error)

	SaveRemembered(ctx context.Context, userID int64, key, value, mac string) error
	FindRemembered(ctx context.Context, userID int64, key string) (value, mac string, err error)
	DeleteRemembered(ctx context.Context, userID int64, key string) error
}

// RateConverter converts money between currencies. *cbr.CBRClient implements it.
type RateConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Service handles business logic
type Service struct {
	repo   Store
	rates  RateConverter
	log    *logrus.Logger
	config *config.Config
	encKey []byte
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo Store, rates RateConverter, log *logrus.Logger, cfg *config.Config) (*Service, error) {
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:   repo,
		rates:  rates,
		log:    log,
		config: cfg,
		encKey: key,
		now:    time.Now,
	}, nil
}

func (s *Service) today() models.Day {
	return models.NewDay(s.now())
}

// ConvertAmount converts amount between two currencies using daily rates
func (s *Service) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if len(from) != 3 || len(to) != 3 {
		return decimal.Zero, validationf("currency codes must have 3 letters")
	}
	return s.rates.Convert(ctx, amount, from, to)
}
