package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
	"github.com/craffles/raffle-backend/internal/repositories/memory"
)

const testCurrency = "CRF"

var testLimits = config.CertLogConfig{MaxDepth: 24, MaxBufferSize: 2048}

type saleFixture struct {
	store     *memory.Store
	raffles   *RaffleServiceImpl
	sales     *SaleServiceImpl
	accounts  *AccountServiceImpl
	raffle    *models.Raffle
	buyer     string
	buyerAcct string
}

// newSaleFixture creates a raffle (price 100, deadline T=1000, depth 3)
// and a funded buyer account.
func newSaleFixture(t *testing.T, buyerBalance uint64) *saleFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	raffleRepo := memory.NewRaffleRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	certLogRepo := memory.NewCertificateLogRepository(store)

	f := &saleFixture{
		store:    store,
		raffles:  NewRaffleService(raffleRepo, ledgerRepo, certLogRepo, store, testLimits),
		sales:    NewSaleService(raffleRepo, ledgerRepo, certLogRepo, store),
		accounts: NewAccountService(ledgerRepo),
	}

	organizer := newIdentity(t)
	logRef := newIdentity(t)
	raffle, err := f.raffles.CreateRaffle(ctx, organizer, &models.CreateRaffleRequest{
		CertificateLogRef: logRef,
		EndTimestamp:      1000,
		TicketPrice:       100,
		Currency:          testCurrency,
		MaxDepth:          3,
		MaxBufferSize:     8,
	})
	if err != nil {
		t.Fatalf("CreateRaffle: %v", err)
	}
	f.raffle = raffle

	f.buyer = newIdentity(t)
	account, err := f.accounts.CreateAccount(ctx, &models.CreateAccountRequest{
		Owner:    f.buyer,
		Currency: testCurrency,
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	f.buyerAcct = account.Address
	if buyerBalance > 0 {
		if _, err := f.accounts.Deposit(ctx, account.Address, buyerBalance); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
	}
	return f
}

func newIdentity(t *testing.T) string {
	t.Helper()
	addr, err := pda.New()
	if err != nil {
		t.Fatalf("pda.New: %v", err)
	}
	return addr.String()
}

// atTime pins the sale engine's clock.
func (f *saleFixture) atTime(sec int64) {
	f.sales.now = func() time.Time { return time.Unix(sec, 0) }
}

func (f *saleFixture) buyRequest(amount uint16) *models.BuyTicketsRequest {
	return &models.BuyTicketsRequest{
		Buyer:        f.buyer,
		BuyerAccount: f.buyerAcct,
		Amount:       amount,
		Metadata: models.CertificateMetadata{
			Name:                "Raffle Ticket",
			Symbol:              "TIX",
			URI:                 "https://example.com/ticket.json",
			TokenProgramVersion: models.TokenProgramVersionOriginal,
		},
	}
}

func (f *saleFixture) escrowBalance(t *testing.T) uint64 {
	t.Helper()
	escrow, err := f.accounts.GetAccount(context.Background(), f.raffle.EscrowAddress)
	if err != nil {
		t.Fatalf("GetAccount(escrow): %v", err)
	}
	return escrow.Balance
}

func (f *saleFixture) logCount(t *testing.T) uint64 {
	t.Helper()
	state, err := f.raffles.GetLogState(context.Background(), f.raffle.Address)
	if err != nil {
		t.Fatalf("GetLogState: %v", err)
	}
	return state.Count
}

func TestBuyTickets(t *testing.T) {
	ctx := context.Background()

	t.Run("purchase before the deadline issues certificates and fills escrow", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(999)

		ids, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(3))
		if err != nil {
			t.Fatalf("BuyTickets: %v", err)
		}
		if len(ids) != 3 {
			t.Fatalf("issued %d certificates, want 3", len(ids))
		}
		if balance := f.escrowBalance(t); balance != 300 {
			t.Errorf("escrow balance is %d, want 300", balance)
		}
		if count := f.logCount(t); count != 3 {
			t.Errorf("log count is %d, want 3", count)
		}

		owned, err := f.raffles.GetCertificates(ctx, f.raffle.Address, f.buyer)
		if err != nil {
			t.Fatalf("GetCertificates: %v", err)
		}
		if len(owned) != 3 {
			t.Errorf("buyer owns %d certificates, want 3", len(owned))
		}
	})

	t.Run("the deadline instant itself still sells", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(1000)

		if _, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(1)); err != nil {
			t.Fatalf("BuyTickets at the deadline: %v", err)
		}
	})

	t.Run("purchase after the deadline fails with no state change", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(1001)

		_, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(3))
		if !errors.Is(err, models.ErrRaffleEnded) {
			t.Fatalf("expected ErrRaffleEnded, got %v", err)
		}
		if balance := f.escrowBalance(t); balance != 0 {
			t.Errorf("escrow changed on a failed purchase: %d", balance)
		}
		if count := f.logCount(t); count != 0 {
			t.Errorf("log changed on a failed purchase: %d", count)
		}
	})

	t.Run("price times amount overflow fails before any collaborator", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(999)

		ctx := context.Background()
		logRef := newIdentity(t)
		raffle, err := f.raffles.CreateRaffle(ctx, newIdentity(t), &models.CreateRaffleRequest{
			CertificateLogRef: logRef,
			EndTimestamp:      1000,
			TicketPrice:       ^uint64(0),
			Currency:          testCurrency,
			MaxDepth:          3,
			MaxBufferSize:     8,
		})
		if err != nil {
			t.Fatalf("CreateRaffle: %v", err)
		}

		_, err = f.sales.BuyTickets(ctx, raffle.Address, f.buyRequest(2))
		if !errors.Is(err, models.ErrInvalidCalculation) {
			t.Fatalf("expected ErrInvalidCalculation, got %v", err)
		}
		state, err := f.raffles.GetLogState(ctx, raffle.Address)
		if err != nil {
			t.Fatalf("GetLogState: %v", err)
		}
		if state.Count != 0 {
			t.Errorf("certificates were appended despite the overflow: %d", state.Count)
		}
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(999)

		_, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(0))
		if !errors.Is(err, models.ErrInvalidCalculation) {
			t.Errorf("expected ErrInvalidCalculation, got %v", err)
		}
	})

	t.Run("insufficient balance surfaces verbatim and leaves the log unchanged", func(t *testing.T) {
		f := newSaleFixture(t, 150)
		f.atTime(999)

		_, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(2))
		if !errors.Is(err, models.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}
		if count := f.logCount(t); count != 0 {
			t.Errorf("appended certificates survived the failed transfer: %d", count)
		}
		if balance := f.escrowBalance(t); balance != 0 {
			t.Errorf("escrow changed on a failed purchase: %d", balance)
		}
	})

	t.Run("a rejected purchase retried after topping up succeeds unchanged", func(t *testing.T) {
		f := newSaleFixture(t, 150)
		f.atTime(999)

		if _, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(2)); err == nil {
			t.Fatal("expected the underfunded purchase to fail")
		}
		if _, err := f.accounts.Deposit(ctx, f.buyerAcct, 100); err != nil {
			t.Fatalf("Deposit: %v", err)
		}

		ids, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(2))
		if err != nil {
			t.Fatalf("retry after top-up: %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("retry issued %d certificates, want 2", len(ids))
		}
		if balance := f.escrowBalance(t); balance != 200 {
			t.Errorf("escrow balance is %d, want 200", balance)
		}
		if count := f.logCount(t); count != 2 {
			t.Errorf("log count is %d, want 2", count)
		}
	})

	t.Run("certificate log capacity surfaces verbatim", func(t *testing.T) {
		f := newSaleFixture(t, 100000)
		f.atTime(999)

		// Depth 3 caps the log at 8 certificates.
		if _, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(8)); err != nil {
			t.Fatalf("BuyTickets: %v", err)
		}
		_, err := f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(1))
		if !errors.Is(err, models.ErrCertificateLogFull) {
			t.Fatalf("expected ErrCertificateLogFull, got %v", err)
		}
		if balance := f.escrowBalance(t); balance != 800 {
			t.Errorf("escrow balance is %d, want 800", balance)
		}
	})

	t.Run("concurrent purchases with balance for only one", func(t *testing.T) {
		f := newSaleFixture(t, 100)
		f.atTime(999)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = f.sales.BuyTickets(ctx, f.raffle.Address, f.buyRequest(1))
			}(i)
		}
		wg.Wait()

		var succeeded, insufficient int
		for _, err := range results {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrInsufficientBalance):
				insufficient++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if succeeded != 1 || insufficient != 1 {
			t.Fatalf("got %d successes and %d balance rejections, want 1 and 1", succeeded, insufficient)
		}
		if balance := f.escrowBalance(t); balance != 100 {
			t.Errorf("escrow balance is %d, want 100", balance)
		}
		if count := f.logCount(t); count != 1 {
			t.Errorf("log count is %d, want 1", count)
		}
	})

	t.Run("unknown raffle fails", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(999)

		_, err := f.sales.BuyTickets(ctx, newIdentity(t), f.buyRequest(1))
		if !errors.Is(err, models.ErrRaffleNotFound) {
			t.Errorf("expected ErrRaffleNotFound, got %v", err)
		}
	})

	t.Run("malformed buyer identity is invalid account data", func(t *testing.T) {
		f := newSaleFixture(t, 1000)
		f.atTime(999)

		req := f.buyRequest(1)
		req.Buyer = "not-an-address"
		_, err := f.sales.BuyTickets(ctx, f.raffle.Address, req)
		if !errors.Is(err, models.ErrInvalidAccountData) {
			t.Errorf("expected ErrInvalidAccountData, got %v", err)
		}
	})
}

func TestCheckedCost(t *testing.T) {
	if cost, err := checkedCost(100, 3); err != nil || cost != 300 {
		t.Errorf("checkedCost(100, 3) = %d, %v", cost, err)
	}
	if _, err := checkedCost(^uint64(0), 2); !errors.Is(err, models.ErrInvalidCalculation) {
		t.Errorf("expected overflow error, got %v", err)
	}
	if cost, err := checkedCost(^uint64(0), 1); err != nil || cost != ^uint64(0) {
		t.Errorf("checkedCost(max, 1) = %d, %v", cost, err)
	}
}
