package services

import (
	"context"
	"math/bits"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/craffles/raffle-backend/internal/logger"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// Compile-time check to ensure SaleServiceImpl implements SaleService
var _ SaleService = (*SaleServiceImpl)(nil)

// SaleServiceImpl is the ticket sale engine. Each purchase is one
// indivisible step: append the certificates, transfer the payment, commit
// both or neither. Purchases against the same raffle are serialized by a
// per-raffle mutex; purchases against different raffles run in parallel.
type SaleServiceImpl struct {
	raffleRepo  repositories.RaffleRepository
	ledgerRepo  repositories.LedgerRepository
	certLogRepo repositories.CertificateLogRepository
	uow         repositories.UnitOfWork

	locks sync.Map // raffle address -> *sync.Mutex
	now   func() time.Time
}

// NewSaleService creates a new SaleService implementation
func NewSaleService(
	raffleRepo repositories.RaffleRepository,
	ledgerRepo repositories.LedgerRepository,
	certLogRepo repositories.CertificateLogRepository,
	uow repositories.UnitOfWork,
) *SaleServiceImpl {
	return &SaleServiceImpl{
		raffleRepo:  raffleRepo,
		ledgerRepo:  ledgerRepo,
		certLogRepo: certLogRepo,
		uow:         uow,
		now:         time.Now,
	}
}

// raffleLock returns the mutex serializing purchases for one raffle.
func (s *SaleServiceImpl) raffleLock(address string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(address, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// checkedCost computes ticketPrice * amount, rejecting overflow before any
// collaborator is invoked.
func checkedCost(ticketPrice uint64, amount uint16) (uint64, error) {
	hi, lo := bits.Mul64(ticketPrice, uint64(amount))
	if hi != 0 {
		return 0, models.ErrInvalidCalculation
	}
	return lo, nil
}

// BuyTickets purchases amount tickets: amount certificates are appended to
// the raffle's log owned by the buyer, and ticketPrice * amount moves from
// the buyer's account into escrow. Returns the issued certificate ids.
// Collaborator errors surface unmodified; every failure leaves no trace.
func (s *SaleServiceImpl) BuyTickets(ctx context.Context, raffleAddress string, req *models.BuyTicketsRequest) ([]string, error) {
	if req.Amount == 0 {
		return nil, models.ErrInvalidCalculation
	}
	buyer, err := pda.Parse(req.Buyer)
	if err != nil {
		return nil, models.ErrInvalidAccountData
	}
	delegate := buyer
	if req.Delegate != "" {
		if delegate, err = pda.Parse(req.Delegate); err != nil {
			return nil, models.ErrInvalidAccountData
		}
	}

	raffle, err := s.raffleRepo.FindByAddress(ctx, raffleAddress)
	if err != nil {
		return nil, err
	}

	lock := s.raffleLock(raffle.Address)
	lock.Lock()
	defer lock.Unlock()

	if raffle.Ended(s.now()) {
		return nil, models.ErrRaffleEnded
	}

	cost, err := checkedCost(raffle.TicketPrice, req.Amount)
	if err != nil {
		return nil, err
	}

	var certificateIDs []string
	err = s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		// The transaction may be retried; start from a clean slate each
		// attempt.
		certificateIDs = make([]string, 0, req.Amount)
		for i := uint16(0); i < req.Amount; i++ {
			certificate, err := s.certLogRepo.Append(ctx, raffle.CertificateLogRef, buyer.String(), delegate.String(), req.Metadata)
			if err != nil {
				return err
			}
			certificateIDs = append(certificateIDs, certificate.ID)
		}
		return s.ledgerRepo.Transfer(ctx, req.BuyerAccount, raffle.EscrowAddress, buyer.String(), cost)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("tickets sold",
		zap.String("raffle", raffle.Address),
		zap.String("buyer", buyer.String()),
		zap.Uint16("amount", req.Amount),
		zap.Uint64("cost", cost),
	)
	return certificateIDs, nil
}
