// internal/auth/service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sparkmatch/sparkmatch-backend/internal/common/utils"
	"github.com/sparkmatch/sparkmatch-backend/internal/config"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service defines authentication operations
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*User, *TokenPair, error)
	Login(ctx context.Context, req *LoginRequest) (*User, *TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

// NewService creates an auth service
func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*User, *TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*User, *TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	return utils.ValidateJWT(token, s.cfg.JWTSecret)
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) issueTokens(user *User) (*TokenPair, error) {
	now := time.Now()

	access, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Type:      "access",
		ExpiresAt: now.Add(s.cfg.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "sparkmatch",
		Subject:   fmt.Sprintf("%d", user.ID),
	}, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    user.ID,
		Type:      "refresh",
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "sparkmatch",
		Subject:   fmt.Sprintf("%d", user.ID),
	}, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
