package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// OrganizerRepository implements the repositories.OrganizerRepository interface
type OrganizerRepository struct {
	collection *mongo.Collection
}

// NewOrganizerRepository creates a new OrganizerRepository
func NewOrganizerRepository(db *mongo.Database) repositories.OrganizerRepository {
	return &OrganizerRepository{
		collection: db.Collection("organizers"),
	}
}

// Create stores a new organizer account
func (r *OrganizerRepository) Create(ctx context.Context, organizer *models.Organizer) (*models.Organizer, error) {
	err := r.collection.FindOne(ctx, bson.M{"email": organizer.Email}).Err()
	if err == nil {
		return nil, models.ErrOrganizerExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	organizer.CreatedAt = time.Now()
	organizer.UpdatedAt = organizer.CreatedAt
	result, err := r.collection.InsertOne(ctx, organizer)
	if err != nil {
		return nil, err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		organizer.ID = id
	}
	return organizer, nil
}

// FindByEmail finds an organizer by email
func (r *OrganizerRepository) FindByEmail(ctx context.Context, email string) (*models.Organizer, error) {
	var organizer models.Organizer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&organizer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &organizer, nil
}
