package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/craffles/raffle-backend/internal/logger"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// Compile-time check to ensure AccountServiceImpl implements AccountService
var _ AccountService = (*AccountServiceImpl)(nil)

type AccountServiceImpl struct {
	ledgerRepo repositories.LedgerRepository
}

// NewAccountService creates a new AccountService implementation
func NewAccountService(ledgerRepo repositories.LedgerRepository) *AccountServiceImpl {
	return &AccountServiceImpl{ledgerRepo: ledgerRepo}
}

// CreateAccount opens one ledger account per owner and currency; the
// address is derived from both, so repeat requests collide instead of
// multiplying accounts.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.LedgerAccount, error) {
	owner, err := pda.Parse(req.Owner)
	if err != nil {
		return nil, models.ErrInvalidAccountData
	}

	address, err := pda.Derive(pda.NamespaceAccount+"."+req.Currency, owner)
	if err != nil {
		return nil, err
	}

	account := &models.LedgerAccount{
		Address:  address.String(),
		Owner:    owner.String(),
		Currency: req.Currency,
	}
	if err := s.ledgerRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("ledger account opened",
		zap.String("address", account.Address),
		zap.String("currency", account.Currency),
	)
	return account, nil
}

// Deposit credits an account
func (s *AccountServiceImpl) Deposit(ctx context.Context, address string, amount uint64) (*models.LedgerAccount, error) {
	return s.ledgerRepo.Deposit(ctx, address, amount)
}

// GetAccount finds an account by address
func (s *AccountServiceImpl) GetAccount(ctx context.Context, address string) (*models.LedgerAccount, error) {
	return s.ledgerRepo.FindByAddress(ctx, address)
}
