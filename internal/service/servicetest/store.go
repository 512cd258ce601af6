// Package servicetest provides in-memory fakes for exercising the service
// layer without a database.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/Dan9191/expense-service/internal/repository"
)

// Remembered is one stored remember-me artifact
type Remembered struct{ Value, MAC string }

// Store is an in-memory implementation of service.Store for tests
type Store struct {
	mu         sync.Mutex
	nextID     int64
	Users      map[int64]*models.User
	expenses   map[int64]models.Expense
	settings   map[int64]models.UserSettings
	Remembered map[string]Remembered
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{
		Users:      map[int64]*models.User{},
		expenses:   map[int64]models.Expense{},
		settings:   map[int64]models.UserSettings{},
		Remembered: map[string]Remembered{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Store) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (m *Store) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", repository.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *Store) CreateExpense(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	m.expenses[e.ID] = *e
	return nil
}

func (m *Store) UpdateExpense(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.expenses[e.ID]
	if !ok || old.UserID != e.UserID {
		return fmt.Errorf("expense %d %w", e.ID, repository.ErrNotFound)
	}
	m.expenses[e.ID] = *e
	return nil
}

func (m *Store) FindExpense(_ context.Context, userID, id int64) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("expense %d %w", id, repository.ErrNotFound)
	}
	return &e, nil
}

func (m *Store) DeleteExpense(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return fmt.Errorf("expense %d %w", id, repository.ErrNotFound)
	}
	delete(m.expenses, id)
	return nil
}

func (m *Store) ListExpenses(_ context.Context, userID int64, f models.ExpenseFilter) ([]models.Expense, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Expense
	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		if f.From != nil && e.Date.Before(f.From.Time) {
			continue
		}
		if f.To != nil && e.Date.After(f.To.Time) {
			continue
		}
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date.Time) {
			return all[i].Date.After(all[j].Date.Time)
		}
		return all[i].ID > all[j].ID
	})
	start := min(f.Page*f.Size, len(all))
	end := min(start+f.Size, len(all))
	return all[start:end], len(all), nil
}

func (m *Store) ExpensesBetween(_ context.Context, userID int64, from, to models.Day) ([]models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && !e.Date.Before(from.Time) && !e.Date.After(to.Time) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Store) GetSettings(_ context.Context, userID int64) (*models.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[userID]; ok {
		return &s, nil
	}
	return models.NewUserSettings(userID), nil
}

func (m *Store) UpsertSettings(_ context.Context, s *models.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.UserID] = *s
	return nil
}

func (m *Store) DeleteSettings(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, userID)
	return nil
}

func (m *Store) ListBudgetSubjects(_ context.Context) ([]models.BudgetSubject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BudgetSubject
	for id, u := range m.Users {
		b := models.BudgetSubject{UserID: id, Email: u.Email, FirstName: u.FirstName,
			Currency: models.DefaultCurrency, MonthlyBudget: models.DefaultMonthlyBudget}
		if s, ok := m.settings[id]; ok {
			b.Currency, b.MonthlyBudget = s.Currency, s.MonthlyBudget
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// RememberKey is the Remembered map key for userID and key
func RememberKey(userID int64, key string) string { return fmt.Sprintf("%d/%s", userID, key) }

func (m *Store) SaveRemembered(_ context.Context, userID int64, key, value, mac string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Remembered[RememberKey(userID, key)] = Remembered{value, mac}
	return nil
}

func (m *Store) FindRemembered(_ context.Context, userID int64, key string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.Remembered[RememberKey(userID, key)]
	if !ok {
		return "", "", fmt.Errorf("remembered %s %w", key, repository.ErrNotFound)
	}
	return r.Value, r.MAC, nil
}

func (m *Store) DeleteRemembered(_ context.Context, userID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Remembered, RememberKey(userID, key))
	return nil
}

// RememberedCount returns the number of stored remember-me artifacts
func (m *Store) RememberedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Remembered)
}
