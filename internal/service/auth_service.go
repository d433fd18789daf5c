package service

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"alcyxob/fitness-community/internal/session"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, password, confirm string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, sess *domain.Session, err error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// authService implements the AuthService interface.
type authService struct {
	users      repository.UserRepository
	sessions   *session.Manager
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcrypt.DefaultCost,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same time on unknown usernames as on wrong passwords.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, username, password, confirm string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirm == "" {
		return nil, ErrMissingFields
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storageError("look up user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Username: username, PasswordHash: string(hash)}
	if _, err = s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, storageError("create user", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")
	user.PasswordHash = ""
	return user, nil
}

// Login checks the credentials and issues a session token.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		compareDummy(password)
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, storageError("look up user", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, sess, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	logrus.WithField("user_id", user.ID).Debug("User logged in")
	return token, sess, nil
}

// Logout revokes the token server side when a revocation store is configured.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return storageError("revoke session", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.sessions.Parse(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return sess, nil
}
