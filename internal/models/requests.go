package models

// RegisterRequest is the payload for organizer registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for organizer login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRaffleRequest configures a new raffle. CertificateLogRef identifies
// the fresh log storage the raffle binds to; the raffle and escrow
// addresses are derived from it, never chosen by the caller.
type CreateRaffleRequest struct {
	CertificateLogRef string `json:"certificateLogRef" binding:"required"`
	EndTimestamp      int64  `json:"endTimestamp" binding:"required"`
	TicketPrice       uint64 `json:"ticketPrice" binding:"required"`
	Currency          string `json:"currency" binding:"required"`
	MaxDepth          uint32 `json:"maxDepth" binding:"required"`
	MaxBufferSize     uint32 `json:"maxBufferSize" binding:"required"`
}

// BuyTicketsRequest purchases Amount tickets in one atomic step. Buyer is
// the identity certificates are issued to; BuyerAccount is the ledger
// account debited, which Buyer must own.
type BuyTicketsRequest struct {
	Buyer        string              `json:"buyer" binding:"required"`
	Delegate     string              `json:"delegate"`
	BuyerAccount string              `json:"buyerAccount" binding:"required"`
	Amount       uint16              `json:"amount" binding:"required,min=1"`
	Metadata     CertificateMetadata `json:"metadata" binding:"required"`
}

// CreateAccountRequest opens a ledger account for Owner in Currency.
type CreateAccountRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// DepositRequest credits a ledger account.
type DepositRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}
