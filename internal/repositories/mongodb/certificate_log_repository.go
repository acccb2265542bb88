package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craffles/raffle-backend/internal/merkle"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// CertificateLogRepository implements the
// repositories.CertificateLogRepository interface over two collections:
// one log-state document per log and one document per issued certificate.
type CertificateLogRepository struct {
	logs         *mongo.Collection
	certificates *mongo.Collection
}

// NewCertificateLogRepository creates a new CertificateLogRepository
func NewCertificateLogRepository(db *mongo.Database) repositories.CertificateLogRepository {
	return &CertificateLogRepository{
		logs:         db.Collection("certificate_logs"),
		certificates: db.Collection("certificates"),
	}
}

// Init sizes fresh log storage for 2^maxDepth certificates
func (r *CertificateLogRepository) Init(ctx context.Context, logRef string, maxDepth, maxBufferSize uint32) error {
	err := r.logs.FindOne(ctx, bson.M{"logRef": logRef}).Err()
	if err == nil {
		return models.ErrCertificateLogExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	state := models.CertificateLogState{
		LogRef:        logRef,
		Root:          merkle.Hash{}.String(),
		Capacity:      uint64(1) << maxDepth,
		MaxDepth:      maxDepth,
		MaxBufferSize: maxBufferSize,
	}
	_, err = r.logs.InsertOne(ctx, state)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrCertificateLogExists
	}
	return err
}

// Append issues one certificate and recomputes the commitment
func (r *CertificateLogRepository) Append(ctx context.Context, logRef, owner, delegate string, metadata models.CertificateMetadata) (*models.TicketCertificate, error) {
	state, err := r.State(ctx, logRef)
	if err != nil {
		return nil, err
	}
	if state.Count >= state.Capacity {
		return nil, models.ErrCertificateLogFull
	}

	leafHash, err := merkle.CertificateLeaf(logRef, state.Count, owner, metadata)
	if err != nil {
		return nil, err
	}

	certificate := &models.TicketCertificate{
		ID:        uuid.NewString(),
		LogRef:    logRef,
		LeafIndex: state.Count,
		LeafHash:  leafHash.String(),
		Owner:     owner,
		Delegate:  delegate,
		Metadata:  metadata,
		MintedAt:  time.Now(),
	}
	if _, err := r.certificates.InsertOne(ctx, certificate); err != nil {
		return nil, err
	}

	root, err := r.recomputeRoot(ctx, logRef)
	if err != nil {
		return nil, err
	}

	_, err = r.logs.UpdateOne(ctx,
		bson.M{"logRef": logRef},
		bson.M{"$inc": bson.M{"count": 1}, "$set": bson.M{"root": root.String()}},
	)
	if err != nil {
		return nil, err
	}
	return certificate, nil
}

// recomputeRoot folds every stored leaf hash, in append order, into the
// commitment.
func (r *CertificateLogRepository) recomputeRoot(ctx context.Context, logRef string) (merkle.Hash, error) {
	opts := options.Find().
		SetSort(bson.M{"leafIndex": 1}).
		SetProjection(bson.M{"leafHash": 1})

	cursor, err := r.certificates.Find(ctx, bson.M{"logRef": logRef}, opts)
	if err != nil {
		return merkle.Hash{}, err
	}
	defer cursor.Close(ctx)

	var leaves []merkle.Hash
	for cursor.Next(ctx) {
		var doc struct {
			LeafHash string `bson:"leafHash"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return merkle.Hash{}, err
		}
		leaf, err := merkle.ParseHash(doc.LeafHash)
		if err != nil {
			return merkle.Hash{}, err
		}
		leaves = append(leaves, leaf)
	}
	if err := cursor.Err(); err != nil {
		return merkle.Hash{}, err
	}
	return merkle.Root(leaves), nil
}

// State returns the log's commitment, fill level and capacity
func (r *CertificateLogRepository) State(ctx context.Context, logRef string) (*models.CertificateLogState, error) {
	var state models.CertificateLogState
	err := r.logs.FindOne(ctx, bson.M{"logRef": logRef}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrCertificateLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// FindByOwner lists certificates issued to owner in append order
func (r *CertificateLogRepository) FindByOwner(ctx context.Context, logRef, owner string) ([]*models.TicketCertificate, error) {
	if _, err := r.State(ctx, logRef); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.M{"leafIndex": 1})
	cursor, err := r.certificates.Find(ctx, bson.M{"logRef": logRef, "owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	certificates := make([]*models.TicketCertificate, 0)
	if err := cursor.All(ctx, &certificates); err != nil {
		return nil, err
	}
	return certificates, nil
}
