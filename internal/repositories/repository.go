package repositories

import (
	"context"

	"github.com/craffles/raffle-backend/internal/models"
)

// RaffleRepository persists immutable raffle records keyed by their derived
// address.
type RaffleRepository interface {
	// Create stores a raffle. Fails with models.ErrRaffleExists when the
	// address is already taken, which is how the one-raffle-per-log
	// invariant is enforced.
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByAddress(ctx context.Context, address string) (*models.Raffle, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error)
}

// LedgerRepository is the ledger collaborator: fungible balances and atomic
// transfers between the accounts it controls.
type LedgerRepository interface {
	// CreateAccount opens an account. Fails with models.ErrAccountExists
	// when the address is already in use.
	CreateAccount(ctx context.Context, account *models.LedgerAccount) error
	FindByAddress(ctx context.Context, address string) (*models.LedgerAccount, error)
	// Deposit credits an account.
	Deposit(ctx context.Context, address string, amount uint64) (*models.LedgerAccount, error)
	// Transfer moves amount from one account to another. The authority
	// must own the source account, both accounts must hold the same
	// currency, and the source balance must cover the amount; otherwise
	// nothing moves.
	Transfer(ctx context.Context, from, to, authority string, amount uint64) error
}

// CertificateLogRepository is the certificate log collaborator: an
// append-only, capacity-bounded store of ticket certificates with a
// tamper-evident commitment.
type CertificateLogRepository interface {
	// Init sizes fresh log storage for 2^maxDepth certificates. Fails
	// with models.ErrCertificateLogExists when the storage region has
	// been used before.
	Init(ctx context.Context, logRef string, maxDepth, maxBufferSize uint32) error
	// Append issues one certificate to owner and recomputes the
	// commitment. Fails with models.ErrCertificateLogFull at capacity.
	Append(ctx context.Context, logRef, owner, delegate string, metadata models.CertificateMetadata) (*models.TicketCertificate, error)
	State(ctx context.Context, logRef string) (*models.CertificateLogState, error)
	FindByOwner(ctx context.Context, logRef, owner string) ([]*models.TicketCertificate, error)
}

// OrganizerRepository persists organizer accounts.
type OrganizerRepository interface {
	Create(ctx context.Context, organizer *models.Organizer) (*models.Organizer, error)
	FindByEmail(ctx context.Context, email string) (*models.Organizer, error)
}

// UnitOfWork runs fn as one indivisible transaction: either every write fn
// performs is committed, or none is. All multi-collaborator operations
// (certificate append + ledger transfer, log init + escrow init) go through
// this boundary.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
