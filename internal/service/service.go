// Package service implements account registration and login on top of the
// key-value store. Users live in the "users" scope keyed by email, with an
// id-to-email index for token lookups; refresh sessions live in the
// "sessions" scope keyed by token.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zerethyily52/Eco-Unity/internal/auth"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

const (
	scopeUsers    = "users"
	scopeUserIDs  = "user_ids"
	scopeSessions = "sessions"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// storedUser carries the hash that the public User type hides from JSON.
type storedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type session struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	Store      kv.Store
	Auth       *auth.Manager
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

func New(store kv.Store, authManager *auth.Manager) *Service {
	return &Service{
		Store:      store,
		Auth:       authManager,
		TokenTTL:   time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// Register creates a new account and returns its id.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	_, exists, err := s.Store.Get(ctx, scopeUsers, email)
	if err != nil {
		return "", fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return "", ErrEmailTaken
	}
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	user := storedUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Store.Set(ctx, scopeUsers, email, user); err != nil {
		return "", fmt.Errorf("store user: %w", err)
	}
	if err := s.Store.Set(ctx, scopeUserIDs, user.ID, email); err != nil {
		return "", fmt.Errorf("store user id index: %w", err)
	}
	return user.ID, nil
}

// Login verifies credentials and returns an access token plus a stored
// refresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	var user storedUser
	ok, err := kv.GetJSON(ctx, s.Store, scopeUsers, email, &user)
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	if err := s.Auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", "", ErrInvalidCredentials
	}
	accessToken, err := s.Auth.GenerateToken(user.ID, s.TokenTTL)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.Auth.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}
	sess := session{UserID: user.ID, ExpiresAt: time.Now().Add(s.RefreshTTL)}
	if err := s.Store.Set(ctx, scopeSessions, refreshToken, sess); err != nil {
		return "", "", fmt.Errorf("store session: %w", err)
	}
	return accessToken, refreshToken, nil
}

// UserByID resolves a token subject back to its account.
func (s *Service) UserByID(ctx context.Context, id string) (User, error) {
	var email string
	ok, err := kv.GetJSON(ctx, s.Store, scopeUserIDs, id, &email)
	if err != nil {
		return User{}, fmt.Errorf("load user id index: %w", err)
	}
	if !ok {
		return User{}, ErrUserNotFound
	}
	var user storedUser
	ok, err = kv.GetJSON(ctx, s.Store, scopeUsers, email, &user)
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return User{}, ErrUserNotFound
	}
	return User{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}, nil
}
