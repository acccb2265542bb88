package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/craffles/raffle-backend/internal/merkle"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// CertificateLogRepository implements repositories.CertificateLogRepository
type CertificateLogRepository struct {
	store *Store
}

// NewCertificateLogRepository creates a new CertificateLogRepository
func NewCertificateLogRepository(store *Store) repositories.CertificateLogRepository {
	return &CertificateLogRepository{store: store}
}

// Init sizes fresh log storage for 2^maxDepth certificates
func (r *CertificateLogRepository) Init(ctx context.Context, logRef string, maxDepth, maxBufferSize uint32) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.logs[logRef]; ok {
		return models.ErrCertificateLogExists
	}

	r.store.logs[logRef] = &logState{
		state: models.CertificateLogState{
			LogRef:        logRef,
			Root:          merkle.Hash{}.String(),
			Capacity:      uint64(1) << maxDepth,
			MaxDepth:      maxDepth,
			MaxBufferSize: maxBufferSize,
		},
	}
	return nil
}

// Append issues one certificate and recomputes the commitment
func (r *CertificateLogRepository) Append(ctx context.Context, logRef, owner, delegate string, metadata models.CertificateMetadata) (*models.TicketCertificate, error) {
	defer r.store.lock(ctx)()

	log, ok := r.store.logs[logRef]
	if !ok {
		return nil, models.ErrCertificateLogNotFound
	}
	if log.state.Count >= log.state.Capacity {
		return nil, models.ErrCertificateLogFull
	}

	leafHash, err := merkle.CertificateLeaf(logRef, log.state.Count, owner, metadata)
	if err != nil {
		return nil, err
	}

	certificate := &models.TicketCertificate{
		ID:        uuid.NewString(),
		LogRef:    logRef,
		LeafIndex: log.state.Count,
		LeafHash:  leafHash.String(),
		Owner:     owner,
		Delegate:  delegate,
		Metadata:  metadata,
		MintedAt:  time.Now(),
	}

	updated := &logState{
		state:      log.state,
		leafHashes: append(log.leafHashes, leafHash),
		leaves:     append(log.leaves, certificate),
	}
	updated.state.Count++
	updated.state.Root = merkle.Root(updated.leafHashes).String()
	r.store.logs[logRef] = updated

	copied := *certificate
	return &copied, nil
}

// State returns the log's commitment, fill level and capacity
func (r *CertificateLogRepository) State(ctx context.Context, logRef string) (*models.CertificateLogState, error) {
	defer r.store.lock(ctx)()

	log, ok := r.store.logs[logRef]
	if !ok {
		return nil, models.ErrCertificateLogNotFound
	}
	state := log.state
	return &state, nil
}

// FindByOwner lists certificates issued to owner in append order
func (r *CertificateLogRepository) FindByOwner(ctx context.Context, logRef, owner string) ([]*models.TicketCertificate, error) {
	defer r.store.lock(ctx)()

	log, ok := r.store.logs[logRef]
	if !ok {
		return nil, models.ErrCertificateLogNotFound
	}

	owned := make([]*models.TicketCertificate, 0)
	for _, certificate := range log.leaves {
		if certificate.Owner == owner {
			copied := *certificate
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}
