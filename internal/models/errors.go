package models

import "errors"

// Domain error taxonomy. Every error aborts the whole call with no partial
// effect; handlers map these to HTTP statuses so clients can tell retryable
// conditions from terminal ones.
var (
	ErrMaxEntrantsTooLarge = errors.New("max entrants is too large")
	ErrRaffleEnded         = errors.New("raffle has ended")
	ErrInvalidCalculation  = errors.New("invalid calculation")
	ErrInvalidAccountData  = errors.New("an account's data contents was invalid")

	// Declared for API completeness; winner drawing and prize claiming are
	// not part of this version and nothing returns these yet.
	ErrInvalidPrizeIndex            = errors.New("invalid prize index")
	ErrNoPrize                      = errors.New("no prize")
	ErrNotEnoughTicketsLeft         = errors.New("not enough tickets left")
	ErrUnclaimedPrizes              = errors.New("unclaimed prizes")
	ErrRaffleStillRunning           = errors.New("raffle is still running")
	ErrWinnerNotDrawn               = errors.New("winner not drawn")
	ErrTokenAccountNotOwnedByWinner = errors.New("ticket account not owned by winner")
	ErrTicketHasNotWon              = errors.New("ticket has not won")
	ErrWinnersAlreadyDrawn          = errors.New("winner already drawn")
)

// Collaborator errors, surfaced verbatim through the sale and creation
// flows.
var (
	ErrRaffleExists           = errors.New("raffle already exists for this certificate log")
	ErrRaffleNotFound         = errors.New("raffle not found")
	ErrAccountExists          = errors.New("ledger account already exists")
	ErrAccountNotFound        = errors.New("ledger account not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrCurrencyMismatch       = errors.New("currency mismatch")
	ErrUnauthorizedTransfer   = errors.New("authority does not own the source account")
	ErrCertificateLogExists   = errors.New("certificate log storage is not zeroed")
	ErrCertificateLogNotFound = errors.New("certificate log not found")
	ErrCertificateLogFull     = errors.New("certificate log is at capacity")

	ErrOrganizerExists    = errors.New("organizer with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
