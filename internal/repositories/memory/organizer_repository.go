package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// OrganizerRepository implements repositories.OrganizerRepository
type OrganizerRepository struct {
	store *Store
}

// NewOrganizerRepository creates a new OrganizerRepository
func NewOrganizerRepository(store *Store) repositories.OrganizerRepository {
	return &OrganizerRepository{store: store}
}

// Create stores a new organizer account
func (r *OrganizerRepository) Create(ctx context.Context, organizer *models.Organizer) (*models.Organizer, error) {
	defer r.store.lock(ctx)()

	if _, ok := r.store.organizers[organizer.Email]; ok {
		return nil, models.ErrOrganizerExists
	}

	stored := *organizer
	stored.ID = primitive.NewObjectID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.store.organizers[organizer.Email] = &stored

	copied := stored
	return &copied, nil
}

// FindByEmail finds an organizer by email
func (r *OrganizerRepository) FindByEmail(ctx context.Context, email string) (*models.Organizer, error) {
	defer r.store.lock(ctx)()

	organizer, ok := r.store.organizers[email]
	if !ok {
		return nil, models.ErrInvalidCredentials
	}
	copied := *organizer
	return &copied, nil
}
