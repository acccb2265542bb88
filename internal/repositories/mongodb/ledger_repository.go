package mongodb

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// LedgerRepository implements the repositories.LedgerRepository interface
type LedgerRepository struct {
	collection *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) repositories.LedgerRepository {
	return &LedgerRepository{
		collection: db.Collection("accounts"),
	}
}

// CreateAccount opens a ledger account
func (r *LedgerRepository) CreateAccount(ctx context.Context, account *models.LedgerAccount) error {
	err := r.collection.FindOne(ctx, bson.M{"address": account.Address}).Err()
	if err == nil {
		return models.ErrAccountExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	_, err = r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAccountExists
	}
	return err
}

// FindByAddress finds an account by address
func (r *LedgerRepository) FindByAddress(ctx context.Context, address string) (*models.LedgerAccount, error) {
	var account models.LedgerAccount
	err := r.collection.FindOne(ctx, bson.M{"address": address}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Deposit credits an account
func (r *LedgerRepository) Deposit(ctx context.Context, address string, amount uint64) (*models.LedgerAccount, error) {
	// The $inc operand is signed; a larger amount would flip sign and
	// debit the account.
	if amount > math.MaxInt64 {
		return nil, models.ErrInvalidCalculation
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$inc": bson.M{"balance": int64(amount)},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	var account models.LedgerAccount
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"address": address}, update, opts).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Transfer moves amount between accounts, all or nothing. Callers that
// combine Transfer with other writes must wrap the call in the unit of
// work so the debit and credit commit with them.
func (r *LedgerRepository) Transfer(ctx context.Context, from, to, authority string, amount uint64) error {
	// Same bound as Deposit: the debit and credit are signed $inc updates.
	if amount > math.MaxInt64 {
		return models.ErrInvalidCalculation
	}

	source, err := r.FindByAddress(ctx, from)
	if err != nil {
		return err
	}
	destination, err := r.FindByAddress(ctx, to)
	if err != nil {
		return err
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

	now := time.Now()
	// The balance guard in the filter keeps a concurrent debit from
	// overdrawing the account between the read above and this write.
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"address": from, "balance": bson.M{"$gte": int64(amount)}},
		bson.M{"$inc": bson.M{"balance": -int64(amount)}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrInsufficientBalance
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"address": to},
		bson.M{"$inc": bson.M{"balance": int64(amount)}, "$set": bson.M{"updatedAt": now}},
	)
	return err
}
