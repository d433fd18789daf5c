// Package session issues and validates the signed tokens that back a login
// session, and carries the resolved session through request contexts.
package session

import (
	"alcyxob/fitness-community/internal/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const issuer = "fitness-community"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token has expired")
	ErrRevokedToken = errors.New("session token has been revoked")
)

// Claims is the payload of a session token.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RevocationStore remembers tokens that were logged out before they expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Manager signs session tokens with an HMAC secret.
type Manager struct {
	secret      []byte
	expiration  time.Duration
	revocations RevocationStore // Optional
	now         func() time.Time
}

// NewManager creates a Manager. revocations may be nil, in which case logout
// only clears the client's cookie.
func NewManager(secret string, expiration time.Duration, revocations RevocationStore) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &Manager{
		secret:      []byte(secret),
		expiration:  expiration,
		revocations: revocations,
		now:         time.Now,
	}, nil
}

// Expiration is the lifetime of newly issued tokens.
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

// Issue creates a signed token for the user.
func (m *Manager) Issue(userID int64, username string) (string, *domain.Session, error) {
	now := m.now()
	sess := &domain.Session{
		UserID:    userID,
		Username:  username,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.expiration),
	}

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.TokenID,
			Subject:   fmt.Sprint(userID),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, sess, nil
}

// Parse validates a token and returns the session it stands for.
// Revocation lookups that fail are treated as revoked.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*domain.Session, error) {
	claims, err := m.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: revocation check: %v", ErrRevokedToken, err)
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return &domain.Session{
		UserID:    claims.UserID,
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates a token until its natural expiry. Tokens that are
// already invalid need no revoking and are ignored.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	if m.revocations == nil {
		return nil
	}
	claims, err := m.parseClaims(tokenString)
	if err != nil {
		return nil
	}
	return m.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (m *Manager) parseClaims(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID <= 0 || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
