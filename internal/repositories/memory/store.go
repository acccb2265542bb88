// Package memory implements the repository interfaces over in-process
// maps. It backs the test suite and the "memory" storage driver; MongoDB is
// the production path.
package memory

import (
	"context"
	"sync"

	"github.com/craffles/raffle-backend/internal/merkle"
	"github.com/craffles/raffle-backend/internal/models"
)

// txnKey marks a context as running inside WithinTransaction, where the
// store mutex is already held.
type txnKey struct{}

type logState struct {
	state      models.CertificateLogState
	leafHashes []merkle.Hash
	leaves     []*models.TicketCertificate
}

// Store holds all in-memory state behind one mutex. Individual operations
// lock it; WithinTransaction holds it across the whole callback and rolls
// the state back on error, which gives the same all-or-nothing,
// serializable semantics the MongoDB session transaction provides.
type Store struct {
	mu         sync.Mutex
	raffles    map[string]*models.Raffle
	accounts   map[string]*models.LedgerAccount
	logs       map[string]*logState
	organizers map[string]*models.Organizer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		raffles:    make(map[string]*models.Raffle),
		accounts:   make(map[string]*models.LedgerAccount),
		logs:       make(map[string]*logState),
		organizers: make(map[string]*models.Organizer),
	}
}

// lock acquires the store mutex unless the context already runs inside a
// transaction. Returns the matching unlock.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txnKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	raffles    map[string]*models.Raffle
	accounts   map[string]*models.LedgerAccount
	logs       map[string]*logState
	organizers map[string]*models.Organizer
}

// take copies the store structure. Stored records are treated as immutable
// once written (mutating operations replace the record), so copying the
// maps, log slices and account values is enough for rollback.
func (s *Store) take() snapshot {
	snap := snapshot{
		raffles:    make(map[string]*models.Raffle, len(s.raffles)),
		accounts:   make(map[string]*models.LedgerAccount, len(s.accounts)),
		logs:       make(map[string]*logState, len(s.logs)),
		organizers: make(map[string]*models.Organizer, len(s.organizers)),
	}
	for k, v := range s.raffles {
		snap.raffles[k] = v
	}
	for k, v := range s.accounts {
		account := *v
		snap.accounts[k] = &account
	}
	for k, v := range s.logs {
		st := &logState{
			state:      v.state,
			leafHashes: append([]merkle.Hash(nil), v.leafHashes...),
			leaves:     append([]*models.TicketCertificate(nil), v.leaves...),
		}
		snap.logs[k] = st
	}
	for k, v := range s.organizers {
		snap.organizers[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.raffles = snap.raffles
	s.accounts = snap.accounts
	s.logs = snap.logs
	s.organizers = snap.organizers
}

// WithinTransaction implements repositories.UnitOfWork. The callback runs
// with the store locked; on error every write it performed is rolled back.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.take()
	if err := fn(context.WithValue(ctx, txnKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
