package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/common"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/dbx"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/auth"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/config"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/models"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication and account management:
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - CreateUser/DeleteUser: admin-only account administration
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies email and password and, on success, returns a new TokenPair.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// GetByID resolves a user, typically from a verified token's subject.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// CreateUser registers a new account. Admin only; duplicate emails conflict.
func (s *UserService) CreateUser(ctx context.Context, actor *models.User, email, name string, role models.Role, password string) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if email == "" || name == "" || password == "" || !role.Valid() {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}
	return s.repomanager.Users(s.db).Create(ctx, user)
}

// DeleteUser removes an account. Admin only; self-deletion is rejected.
func (s *UserService) DeleteUser(ctx context.Context, actor *models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return common.ErrorValidation
	}
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

// Bootstrap seeds the default admin and regular accounts when absent so a
// fresh deployment is immediately usable.
func (s *UserService) Bootstrap(ctx context.Context) error {
	seeds := []struct {
		email    string
		name     string
		role     models.Role
		password string
	}{
		{"admin@example.com", "Admin User", models.RoleAdmin, "admin123"},
		{"user@example.com", "Regular User", models.RoleUser, "user123"},
	}

	repo := s.repomanager.Users(s.db)
	for _, seed := range seeds {
		_, err := repo.GetByEmail(ctx, seed.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		hash, err := auth.HashPassword(seed.password)
		if err != nil {
			return err
		}
		_, err = repo.Create(ctx, &models.User{
			ID:           uuid.New().String(),
			Email:        seed.email,
			Name:         seed.name,
			Role:         seed.role,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		s.logger.Info(ctx, "seeded default account", "email", seed.email, "role", string(seed.role))
	}
	return nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
