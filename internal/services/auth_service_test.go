package services

import (
	"context"
	"errors"
	"testing"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories/memory"
	"github.com/craffles/raffle-backend/internal/utils"
)

func newAuthService(t *testing.T) (*AuthServiceImpl, *config.Config) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	return NewAuthService(memory.NewOrganizerRepository(memory.NewStore()), cfg), cfg
}

func TestAuth(t *testing.T) {
	ctx := context.Background()

	register := &models.RegisterRequest{
		Email:    "organizer@example.com",
		Name:     "Organizer",
		Password: "correct horse battery staple",
	}

	t.Run("register and login round trip", func(t *testing.T) {
		service, cfg := newAuthService(t)

		organizer, err := service.Register(ctx, register)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if organizer.Password != "" {
			t.Error("register response leaks the password hash")
		}
		if organizer.Address == "" {
			t.Error("organizer has no identity address")
		}

		token, err := service.Login(ctx, &models.LoginRequest{
			Email:    register.Email,
			Password: register.Password,
		})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}

		claims, err := utils.ValidateJWT(token, cfg)
		if err != nil {
			t.Fatalf("ValidateJWT: %v", err)
		}
		if claims["email"] != register.Email {
			t.Errorf("token email is %v, want %s", claims["email"], register.Email)
		}
		if claims["address"] != organizer.Address {
			t.Errorf("token address is %v, want %s", claims["address"], organizer.Address)
		}
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		service, _ := newAuthService(t)
		if _, err := service.Register(ctx, register); err != nil {
			t.Fatalf("Register: %v", err)
		}
		if _, err := service.Register(ctx, register); !errors.Is(err, models.ErrOrganizerExists) {
			t.Errorf("expected ErrOrganizerExists, got %v", err)
		}
	})

	t.Run("wrong password fails", func(t *testing.T) {
		service, _ := newAuthService(t)
		if _, err := service.Register(ctx, register); err != nil {
			t.Fatalf("Register: %v", err)
		}
		_, err := service.Login(ctx, &models.LoginRequest{
			Email:    register.Email,
			Password: "wrong",
		})
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email fails", func(t *testing.T) {
		service, _ := newAuthService(t)
		_, err := service.Login(ctx, &models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		if !errors.Is(err, models.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
