package memory

import (
	"context"
	"time"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// LedgerRepository implements repositories.LedgerRepository
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(store *Store) repositories.LedgerRepository {
	return &LedgerRepository{store: store}
}

// CreateAccount opens a ledger account
func (r *LedgerRepository) CreateAccount(ctx context.Context, account *models.LedgerAccount) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.accounts[account.Address]; ok {
		return models.ErrAccountExists
	}

	stored := *account
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.store.accounts[account.Address] = &stored
	return nil
}

// FindByAddress finds an account by address
func (r *LedgerRepository) FindByAddress(ctx context.Context, address string) (*models.LedgerAccount, error) {
	defer r.store.lock(ctx)()

	account, ok := r.store.accounts[address]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// Deposit credits an account
func (r *LedgerRepository) Deposit(ctx context.Context, address string, amount uint64) (*models.LedgerAccount, error) {
	defer r.store.lock(ctx)()

	account, ok := r.store.accounts[address]
	if !ok {
		return nil, models.ErrAccountNotFound
	}

	updated := *account
	updated.Balance += amount
	updated.UpdatedAt = time.Now()
	r.store.accounts[address] = &updated

	copied := updated
	return &copied, nil
}

// Transfer moves amount between accounts, all or nothing
func (r *LedgerRepository) Transfer(ctx context.Context, from, to, authority string, amount uint64) error {
	defer r.store.lock(ctx)()

	source, ok := r.store.accounts[from]
	if !ok {
		return models.ErrAccountNotFound
	}
	destination, ok := r.store.accounts[to]
	if !ok {
		return models.ErrAccountNotFound
	}

	if source.Owner != authority {
		return models.ErrUnauthorizedTransfer
	}
	if source.Currency != destination.Currency {
		return models.ErrCurrencyMismatch
	}
	if source.Balance < amount {
		return models.ErrInsufficientBalance
	}
	// A self-transfer nets to zero; writing two copies of the same record
	// would let the credit overwrite the debit.
	if from == to {
		return nil
	}

	now := time.Now()
	debited := *source
	debited.Balance -= amount
	debited.UpdatedAt = now
	credited := *destination
	credited.Balance += amount
	credited.UpdatedAt = now

	r.store.accounts[from] = &debited
	r.store.accounts[to] = &credited
	return nil
}
