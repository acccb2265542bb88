package services

import (
	"context"

	"github.com/craffles/raffle-backend/internal/models"
)

// RaffleService creates and reads raffle records. Creation is one-shot: a
// raffle is immutable after it exists.
type RaffleService interface {
	CreateRaffle(ctx context.Context, organizer string, req *models.CreateRaffleRequest) (*models.Raffle, error)
	GetRaffle(ctx context.Context, address string) (*models.Raffle, error)
	GetRaffles(ctx context.Context, page, limit int) ([]*models.Raffle, error)
	GetLogState(ctx context.Context, raffleAddress string) (*models.CertificateLogState, error)
	GetCertificates(ctx context.Context, raffleAddress, owner string) ([]*models.TicketCertificate, error)
}

// SaleService is the ticket sale engine: one atomic step that issues
// certificates and moves payment into escrow.
type SaleService interface {
	BuyTickets(ctx context.Context, raffleAddress string, req *models.BuyTicketsRequest) ([]string, error)
}

// AccountService manages ledger accounts for buyers.
type AccountService interface {
	CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.LedgerAccount, error)
	Deposit(ctx context.Context, address string, amount uint64) (*models.LedgerAccount, error)
	GetAccount(ctx context.Context, address string) (*models.LedgerAccount, error)
}

// AuthService handles organizer registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Organizer, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}
