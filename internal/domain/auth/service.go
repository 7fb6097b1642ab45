package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service signs in the single configured operator.
type Service struct {
	Email        string
	PasswordHash string
	Secret       string
	TTL          time.Duration
	Now          func() time.Time
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      SessionUser `json:"user"`
}

type SessionUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewService(email, passwordHash, secret string, ttl time.Duration) *Service {
	return &Service{
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Secret:       secret,
		TTL:          ttl,
		Now:          time.Now,
	}
}

func (s *Service) Configured() bool {
	return s.Email != "" && s.PasswordHash != "" && s.Secret != ""
}

func (s *Service) Login(_ context.Context, email, password string) (Session, error) {
	if !s.Configured() {
		slog.Warn("login attempted without a configured operator")
		return Session{}, ErrInvalidCredentials
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.Email) {
		return Session{}, ErrInvalidCredentials
	}
	if err := CheckPassword(s.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	now := s.Now()
	token, err := GenerateToken(s.Secret, Claims{Email: s.Email, RoleName: RoleManager}, now, s.TTL)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		ExpiresAt: now.Add(s.TTL).UTC(),
		User:      SessionUser{Email: s.Email, Role: RoleManager},
	}, nil
}
