package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// RaffleRepository implements the repositories.RaffleRepository interface
type RaffleRepository struct {
	collection *mongo.Collection
}

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(db *mongo.Database) repositories.RaffleRepository {
	return &RaffleRepository{
		collection: db.Collection("raffles"),
	}
}

// Create stores a raffle, failing if its derived address is taken
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	err := r.collection.FindOne(ctx, bson.M{"address": raffle.Address}).Err()
	if err == nil {
		return models.ErrRaffleExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	raffle.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, raffle)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrRaffleExists
	}
	return err
}

// FindByAddress finds a raffle by its derived address
func (r *RaffleRepository) FindByAddress(ctx context.Context, address string) (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.collection.FindOne(ctx, bson.M{"address": address}).Decode(&raffle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrRaffleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

// FindAll lists raffles ordered by creation time with pagination
func (r *RaffleRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.M{"createdAt": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raffles []*models.Raffle
	if err := cursor.All(ctx, &raffles); err != nil {
		return nil, err
	}
	return raffles, nil
}
