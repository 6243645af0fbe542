// Package auth is the token collaborator: it trades credentials for a
// signed token and resolves tokens back to issuer ids. The lifecycle core
// never sees tokens, only the resolved issuer id.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffportal/backend/internal/models"
)

// ErrInvalidCredentials is returned for any login failure: unknown email,
// wrong password, or deactivated account. Callers cannot tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore is the account lookup needed for login.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type service struct {
	store  CredentialStore
	secret []byte
	ttl    time.Duration
}

func NewService(store CredentialStore, secret []byte, ttl time.Duration) *service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{store: store, secret: secret, ttl: ttl}
}

var _ Service = (*service)(nil)

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if acc == nil || !acc.Active {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(acc.ID)
}

func (s *service) issueToken(issuerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   issuerID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

func (s *service) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	tok, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	return uuid.Parse(claims.Subject)
}
