package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/expense-service/internal/models"
	"github.com/Dan9191/expense-service/internal/repository"
	"github.com/Dan9191/expense-service/internal/session"
	"github.com/Dan9191/expense-service/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationf("invalid email")
	}
	if len(password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.repo.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns the user and a signed JWT
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, tokenString, nil
}

// ParseToken validates a session JWT and returns the user id it was issued to
func ParseToken(tokenString, secret string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject: %w", err)
	}
	return userID, nil
}

// Remember stores the auth token and user profile so a later visit can be
// recognised. Both are encrypted and MAC'd at rest.
func (s *Service) Remember(ctx context.Context, user *models.User, token string) error {
	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	for key, value := range map[string]string{
		session.RememberedTokenKey: token,
		session.RememberedUserKey:  string(profile),
	} {
		enc, err := utils.Encrypt(value, s.encKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", key, err)
		}
		mac := utils.GenerateHMAC(s.config.HMACSecret, strconv.FormatInt(user.ID, 10), key, value)
		if err := s.repo.SaveRemembered(ctx, user.ID, key, enc, mac); err != nil {
			return err
		}
	}
	return nil
}

// Profile returns the user's profile, preferring the remembered copy when it
// decrypts and verifies
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	if user, ok := s.rememberedProfile(ctx, userID); ok {
		return user, nil
	}
	return s.repo.FindUserByID(ctx, userID)
}

func (s *Service) rememberedProfile(ctx context.Context, userID int64) (*models.User, bool) {
	enc, mac, err := s.repo.FindRemembered(ctx, userID, session.RememberedUserKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Failed to load remembered profile for user %d: %v", userID, err)
		}
		return nil, false
	}
	plain, err := utils.Decrypt(enc, s.encKey)
	if err != nil {
		s.log.Warnf("Failed to decrypt remembered profile for user %d: %v", userID, err)
		return nil, false
	}
	if !utils.VerifyHMAC(mac, s.config.HMACSecret, strconv.FormatInt(userID, 10), session.RememberedUserKey, plain) {
		s.log.Warnf("Remembered profile for user %d failed verification", userID)
		return nil, false
	}
	user := &models.User{}
	if err := json.Unmarshal([]byte(plain), user); err != nil || user.ID != userID {
		return nil, false
	}
	return user, true
}

// RememberStore returns the persistent remember-me store for one user
func (s *Service) RememberStore(userID int64) session.PersistentStore {
	return &rememberStore{repo: s.repo, userID: userID}
}

type rememberStore struct {
	repo   Store
	userID int64
}

func (r *rememberStore) Remove(ctx context.Context, key string) error {
	return r.repo.DeleteRemembered(ctx, r.userID, key)
}

// UserExists reports whether email is already registered
func (s *Service) UserExists(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, validationf("email is required")
	}
	_, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TokenTTL is how long issued tokens stay valid
func (s *Service) TokenTTL() time.Duration {
	return s.config.TokenTTL
}
