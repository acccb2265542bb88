package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/craffles/raffle-backend/internal/models"
)

func testMetadata() models.CertificateMetadata {
	return models.CertificateMetadata{
		Name:                "Raffle Ticket",
		Symbol:              "TIX",
		URI:                 "https://example.com/ticket.json",
		TokenProgramVersion: models.TokenProgramVersionOriginal,
	}
}

func TestCertificateLogInit(t *testing.T) {
	ctx := context.Background()
	logs := NewCertificateLogRepository(NewStore()).(*CertificateLogRepository)
	logRef := newAddress(t)

	if err := logs.Init(ctx, logRef, 3, 8); err != nil {
		t.Fatalf("Init: %v", err)
	}

	t.Run("reused storage region is rejected", func(t *testing.T) {
		err := logs.Init(ctx, logRef, 3, 8)
		if !errors.Is(err, models.ErrCertificateLogExists) {
			t.Errorf("expected ErrCertificateLogExists, got %v", err)
		}
	})

	t.Run("capacity is two to the depth", func(t *testing.T) {
		state, err := logs.State(ctx, logRef)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if state.Capacity != 8 {
			t.Errorf("capacity is %d, want 8", state.Capacity)
		}
		if state.Count != 0 {
			t.Errorf("fresh log has count %d", state.Count)
		}
	})
}

func TestCertificateLogAppend(t *testing.T) {
	ctx := context.Background()
	logs := NewCertificateLogRepository(NewStore()).(*CertificateLogRepository)
	logRef := newAddress(t)
	owner := newAddress(t)

	if err := logs.Init(ctx, logRef, 2, 8); err != nil {
		t.Fatalf("Init: %v", err)
	}

	t.Run("append assigns sequential leaf indexes and evolves the root", func(t *testing.T) {
		roots := map[string]bool{}
		initial, _ := logs.State(ctx, logRef)
		roots[initial.Root] = true

		for i := uint64(0); i < 3; i++ {
			certificate, err := logs.Append(ctx, logRef, owner, owner, testMetadata())
			if err != nil {
				t.Fatalf("Append %d: %v", i, err)
			}
			if certificate.LeafIndex != i {
				t.Errorf("leaf index is %d, want %d", certificate.LeafIndex, i)
			}
			if certificate.ID == "" {
				t.Error("certificate id is empty")
			}
			state, _ := logs.State(ctx, logRef)
			if roots[state.Root] {
				t.Errorf("root did not change after append %d", i)
			}
			roots[state.Root] = true
		}
	})

	t.Run("log is bounded at capacity", func(t *testing.T) {
		if _, err := logs.Append(ctx, logRef, owner, owner, testMetadata()); err != nil {
			t.Fatalf("Append: %v", err)
		}
		_, err := logs.Append(ctx, logRef, owner, owner, testMetadata())
		if !errors.Is(err, models.ErrCertificateLogFull) {
			t.Errorf("expected ErrCertificateLogFull, got %v", err)
		}
	})

	t.Run("owner queries return only that owner's certificates", func(t *testing.T) {
		owned, err := logs.FindByOwner(ctx, logRef, owner)
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if len(owned) != 4 {
			t.Fatalf("owner has %d certificates, want 4", len(owned))
		}
		other, err := logs.FindByOwner(ctx, logRef, newAddress(t))
		if err != nil {
			t.Fatalf("FindByOwner: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("stranger has %d certificates, want 0", len(other))
		}
	})

	t.Run("append to unknown log fails", func(t *testing.T) {
		_, err := logs.Append(ctx, newAddress(t), owner, owner, testMetadata())
		if !errors.Is(err, models.ErrCertificateLogNotFound) {
			t.Errorf("expected ErrCertificateLogNotFound, got %v", err)
		}
	})
}

func TestWithinTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	logs := NewCertificateLogRepository(store)
	ledger := NewLedgerRepository(store).(*LedgerRepository)

	logRef := newAddress(t)
	owner := newAddress(t)
	if err := logs.Init(ctx, logRef, 3, 8); err != nil {
		t.Fatalf("Init: %v", err)
	}
	account := openAccount(t, ledger, owner, "CRF", 100)

	failure := errors.New("collaborator failure")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := logs.Append(ctx, logRef, owner, owner, testMetadata()); err != nil {
			return err
		}
		if _, err := ledger.Deposit(ctx, account, 50); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	state, _ := logs.State(ctx, logRef)
	if state.Count != 0 {
		t.Errorf("append survived a rolled-back transaction, count %d", state.Count)
	}
	balance, _ := ledger.FindByAddress(ctx, account)
	if balance.Balance != 100 {
		t.Errorf("deposit survived a rolled-back transaction, balance %d", balance.Balance)
	}

	// A successful transaction commits both writes.
	err = store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := logs.Append(ctx, logRef, owner, owner, testMetadata()); err != nil {
			return err
		}
		_, err := ledger.Deposit(ctx, account, 50)
		return err
	})
	if err != nil {
		t.Fatalf("WithinTransaction: %v", err)
	}
	state, _ = logs.State(ctx, logRef)
	balance, _ = ledger.FindByAddress(ctx, account)
	if state.Count != 1 || balance.Balance != 150 {
		t.Errorf("committed transaction not visible: count %d balance %d", state.Count, balance.Balance)
	}
}
