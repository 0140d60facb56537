package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/models"
)

var (
	// ErrPhoneTaken is returned when registering a phone number that already has an account
	ErrPhoneTaken = errors.New("phone number already registered")
	// ErrInvalidCredentials covers unknown phone, wrong password and disabled
	// accounts. Callers must not be able to tell these apart.
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	// ErrInvalidRefreshToken is returned for unknown or expired refresh tokens
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair is the credential pair issued on registration and login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService handles registration, login and token issuance
type AuthService interface {
	Register(phone, password, name string) (*models.Account, *TokenPair, error)
	Login(phone, password string) (*models.Account, *TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

type authService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthService creates an AuthService backed by the given database
func NewAuthService(db *gorm.DB, cfg *config.Config) AuthService {
	return &authService{db: db, cfg: cfg}
}

// Register creates a new account for the phone number and issues a token pair.
// Account and refresh token are created in one transaction.
func (s *authService) Register(phone, password, name string) (*models.Account, *TokenPair, error) {
	var existing models.Account
	err := s.db.Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return nil, nil, ErrPhoneTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Phone:        phone,
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
	}

	var tokens *TokenPair
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			// The uniqueness constraint wins races the pre-check missed
			if IsUniqueViolation(err) {
				return ErrPhoneTaken
			}
			return err
		}

		pair, err := s.issueTokens(tx, &account)
		if err != nil {
			return err
		}
		tokens = pair
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &account, tokens, nil
}

// Login verifies phone and password and issues a fresh token pair
func (s *authService) Login(phone, password string) (*models.Account, *TokenPair, error) {
	var account models.Account
	if err := s.db.Where("phone = ?", phone).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	var tokens *TokenPair
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pair, err := s.issueTokens(tx, &account)
		if err != nil {
			return err
		}
		tokens = pair
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &account, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// refresh token is rotated out.
func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	var tokens *TokenPair
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		if err := tx.Where("token = ?", refreshToken).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRefreshToken
			}
			return err
		}

		if stored.ExpiresAt.Before(time.Now()) {
			if err := tx.Delete(&stored).Error; err != nil {
				return err
			}
			return ErrInvalidRefreshToken
		}

		var account models.Account
		if err := tx.First(&account, stored.AccountID).Error; err != nil {
			return ErrInvalidRefreshToken
		}
		if !account.IsActive {
			return ErrInvalidRefreshToken
		}

		if err := tx.Delete(&stored).Error; err != nil {
			return err
		}

		pair, err := s.issueTokens(tx, &account)
		if err != nil {
			return err
		}
		tokens = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

// issueTokens signs a short-lived access token and persists a new opaque
// refresh token for the account
func (s *authService) issueTokens(tx *gorm.DB, account *models.Account) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", account.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh := models.RefreshToken{
		AccountID: account.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}
	if err := tx.Create(&refresh).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh.Token}, nil
}
