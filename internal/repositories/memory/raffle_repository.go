package memory

import (
	"context"
	"sort"
	"time"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// RaffleRepository implements repositories.RaffleRepository
type RaffleRepository struct {
	store *Store
}

// NewRaffleRepository creates a new RaffleRepository
func NewRaffleRepository(store *Store) repositories.RaffleRepository {
	return &RaffleRepository{store: store}
}

// Create stores a raffle, failing if its derived address is taken
func (r *RaffleRepository) Create(ctx context.Context, raffle *models.Raffle) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.raffles[raffle.Address]; ok {
		return models.ErrRaffleExists
	}

	stored := *raffle
	stored.CreatedAt = time.Now()
	r.store.raffles[raffle.Address] = &stored
	return nil
}

// FindByAddress finds a raffle by its derived address
func (r *RaffleRepository) FindByAddress(ctx context.Context, address string) (*models.Raffle, error) {
	defer r.store.lock(ctx)()

	raffle, ok := r.store.raffles[address]
	if !ok {
		return nil, models.ErrRaffleNotFound
	}
	copied := *raffle
	return &copied, nil
}

// FindAll lists raffles ordered by creation time with pagination
func (r *RaffleRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	defer r.store.lock(ctx)()

	all := make([]*models.Raffle, 0, len(r.store.raffles))
	for _, raffle := range r.store.raffles {
		copied := *raffle
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start < 0 || start >= len(all) {
		return []*models.Raffle{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}
