package mongodb

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/craffles/raffle-backend/internal/models"
)

func TestLedgerAmountBound(t *testing.T) {
	ctx := context.Background()
	ledger := &LedgerRepository{}
	tooLarge := uint64(math.MaxInt64) + 1

	if _, err := ledger.Deposit(ctx, "account", tooLarge); !errors.Is(err, models.ErrInvalidCalculation) {
		t.Errorf("Deposit: expected ErrInvalidCalculation, got %v", err)
	}
	if err := ledger.Transfer(ctx, "from", "to", "authority", tooLarge); !errors.Is(err, models.ErrInvalidCalculation) {
		t.Errorf("Transfer: expected ErrInvalidCalculation, got %v", err)
	}
}
