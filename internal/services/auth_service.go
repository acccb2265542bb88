package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
	"github.com/craffles/raffle-backend/internal/repositories"
	"github.com/craffles/raffle-backend/internal/utils"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	organizerRepo repositories.OrganizerRepository
	cfg           *config.Config
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(organizerRepo repositories.OrganizerRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		organizerRepo: organizerRepo,
		cfg:           cfg,
	}
}

// Register creates an organizer account with a bcrypt-hashed password and
// a fresh on-ledger identity address.
func (s *AuthServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Organizer, error) {
	if _, err := s.organizerRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, models.ErrOrganizerExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	address, err := pda.New()
	if err != nil {
		return nil, err
	}

	organizer := &models.Organizer{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
		Address:  address.String(),
	}

	created, err := s.organizerRepo.Create(ctx, organizer)
	if err != nil {
		return nil, err
	}

	created.Password = ""
	return created, nil
}

// Login verifies credentials and returns a signed JWT carrying the
// organizer's identity address.
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	organizer, err := s.organizerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(organizer.Password), []byte(req.Password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return utils.GenerateJWT(organizer.ID.Hex(), organizer.Email, organizer.Address, s.cfg)
}
