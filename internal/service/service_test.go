package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zerethyily52/Eco-Unity/internal/auth"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

func newTestService() *Service {
	return New(kv.NewMemory(), auth.NewManager("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	id, err := s.Register(ctx, "eco@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id == "" {
		t.Fatalf("empty user id")
	}

	access, refresh, err := s.Login(ctx, "eco@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("empty tokens")
	}

	claims, err := s.Auth.ParseToken(access)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("token subject = %q, want %q", claims.UserID, id)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	if _, err := s.Register(ctx, "eco@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := s.Register(ctx, "eco@example.com", "other")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	s.Register(ctx, "eco@example.com", "hunter22")
	if _, _, err := s.Login(ctx, "eco@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := s.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserByID(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	id, _ := s.Register(ctx, "eco@example.com", "hunter22")
	user, err := s.UserByID(ctx, id)
	if err != nil {
		t.Fatalf("user by id: %v", err)
	}
	if user.Email != "eco@example.com" || user.PasswordHash != "" {
		t.Fatalf("user = %+v", user)
	}
	if _, err := s.UserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
