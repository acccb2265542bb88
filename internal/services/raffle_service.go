package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/craffles/raffle-backend/internal/config"
	"github.com/craffles/raffle-backend/internal/logger"
	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
	"github.com/craffles/raffle-backend/internal/repositories"
)

// Compile-time check to ensure RaffleServiceImpl implements RaffleService
var _ RaffleService = (*RaffleServiceImpl)(nil)

// RaffleServiceImpl owns raffle records: it is the only writer, and writes
// exactly once per raffle, at creation.
type RaffleServiceImpl struct {
	raffleRepo  repositories.RaffleRepository
	ledgerRepo  repositories.LedgerRepository
	certLogRepo repositories.CertificateLogRepository
	uow         repositories.UnitOfWork
	limits      config.CertLogConfig
}

// NewRaffleService creates a new RaffleService implementation
func NewRaffleService(
	raffleRepo repositories.RaffleRepository,
	ledgerRepo repositories.LedgerRepository,
	certLogRepo repositories.CertificateLogRepository,
	uow repositories.UnitOfWork,
	limits config.CertLogConfig,
) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo:  raffleRepo,
		ledgerRepo:  ledgerRepo,
		certLogRepo: certLogRepo,
		uow:         uow,
		limits:      limits,
	}
}

// CreateRaffle derives the raffle and escrow addresses from the
// certificate log reference, then initializes all three records in one
// transaction. A second creation for the same log collides on the derived
// raffle address and fails, so raffle-per-log uniqueness needs no
// registry.
func (s *RaffleServiceImpl) CreateRaffle(ctx context.Context, organizer string, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	if err := s.validateCapacity(req.MaxDepth, req.MaxBufferSize); err != nil {
		return nil, err
	}

	organizerAddr, err := pda.Parse(organizer)
	if err != nil {
		return nil, fmt.Errorf("organizer identity: %w", models.ErrInvalidAccountData)
	}
	logRef, err := pda.Parse(req.CertificateLogRef)
	if err != nil {
		return nil, fmt.Errorf("certificate log ref: %w", models.ErrInvalidAccountData)
	}

	raffleAddr, err := pda.RaffleAddress(logRef)
	if err != nil {
		return nil, err
	}
	escrowAddr, err := pda.ProceedsAddress(raffleAddr)
	if err != nil {
		return nil, err
	}

	raffle := &models.Raffle{
		Address:           raffleAddr.String(),
		Organizer:         organizerAddr.String(),
		CertificateLogRef: logRef.String(),
		EscrowAddress:     escrowAddr.String(),
		EndTimestamp:      req.EndTimestamp,
		TicketPrice:       req.TicketPrice,
		Currency:          req.Currency,
		MaxDepth:          req.MaxDepth,
		MaxBufferSize:     req.MaxBufferSize,
	}

	// The escrow is owned by the raffle itself: no external authority can
	// move proceeds out through the transfer path.
	escrow := &models.LedgerAccount{
		Address:  escrowAddr.String(),
		Owner:    raffleAddr.String(),
		Currency: req.Currency,
	}

	err = s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.raffleRepo.Create(ctx, raffle); err != nil {
			return err
		}
		if err := s.ledgerRepo.CreateAccount(ctx, escrow); err != nil {
			return err
		}
		return s.certLogRepo.Init(ctx, logRef.String(), req.MaxDepth, req.MaxBufferSize)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("raffle created",
		zap.String("raffle", raffle.Address),
		zap.String("certificateLog", raffle.CertificateLogRef),
		zap.Uint64("ticketPrice", raffle.TicketPrice),
		zap.Int64("endTimestamp", raffle.EndTimestamp),
	)
	return raffle, nil
}

// validateCapacity bounds the depth/buffer pair before any storage is
// touched. The buffer width must be a power of two.
func (s *RaffleServiceImpl) validateCapacity(maxDepth, maxBufferSize uint32) error {
	if maxDepth < 3 || maxDepth > s.limits.MaxDepth {
		return models.ErrMaxEntrantsTooLarge
	}
	if maxBufferSize < 8 || maxBufferSize > s.limits.MaxBufferSize {
		return models.ErrMaxEntrantsTooLarge
	}
	if maxBufferSize&(maxBufferSize-1) != 0 {
		return models.ErrMaxEntrantsTooLarge
	}
	return nil
}

// GetRaffle finds a raffle by its derived address
func (s *RaffleServiceImpl) GetRaffle(ctx context.Context, address string) (*models.Raffle, error) {
	return s.raffleRepo.FindByAddress(ctx, address)
}

// GetRaffles lists raffles with pagination
func (s *RaffleServiceImpl) GetRaffles(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	return s.raffleRepo.FindAll(ctx, page, limit)
}

// GetLogState returns the commitment and fill level of the raffle's
// certificate log
func (s *RaffleServiceImpl) GetLogState(ctx context.Context, raffleAddress string) (*models.CertificateLogState, error) {
	raffle, err := s.raffleRepo.FindByAddress(ctx, raffleAddress)
	if err != nil {
		return nil, err
	}
	return s.certLogRepo.State(ctx, raffle.CertificateLogRef)
}

// GetCertificates lists the certificates issued to owner in the raffle's
// log
func (s *RaffleServiceImpl) GetCertificates(ctx context.Context, raffleAddress, owner string) ([]*models.TicketCertificate, error) {
	raffle, err := s.raffleRepo.FindByAddress(ctx, raffleAddress)
	if err != nil {
		return nil, err
	}
	return s.certLogRepo.FindByOwner(ctx, raffle.CertificateLogRef, owner)
}
