package models

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/craffles/raffle-backend/internal/pda"
)

// RaffleRecordSize is the length of the fixed-size persisted raffle record:
// organizer (32) | certificate log ref (32) | escrow (32) | end timestamp
// (8, signed) | ticket price (8, unsigned).
const RaffleRecordSize = 112

// Raffle is the immutable configuration and identity of one ticket sale.
// Every field is write-once: nothing mutates a raffle after creation. The
// address is derived from the certificate log reference, so there is
// exactly one raffle per log and its address is computable without a
// lookup.
type Raffle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Address           string             `bson:"address" json:"address"`
	Organizer         string             `bson:"organizer" json:"organizer"`
	CertificateLogRef string             `bson:"certificateLogRef" json:"certificateLogRef"`
	EscrowAddress     string             `bson:"escrowAddress" json:"escrowAddress"`
	EndTimestamp      int64              `bson:"endTimestamp" json:"endTimestamp"`
	TicketPrice       uint64             `bson:"ticketPrice" json:"ticketPrice"`
	Currency          string             `bson:"currency" json:"currency"`
	MaxDepth          uint32             `bson:"maxDepth" json:"maxDepth"`
	MaxBufferSize     uint32             `bson:"maxBufferSize" json:"maxBufferSize"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Ended reports whether the sale window has closed at the given instant.
// The deadline itself is still inside the window.
func (r *Raffle) Ended(now time.Time) bool {
	return now.Unix() > r.EndTimestamp
}

// MarshalBinary encodes the fixed-size raffle record.
func (r *Raffle) MarshalBinary() ([]byte, error) {
	organizer, err := pda.Parse(r.Organizer)
	if err != nil {
		return nil, fmt.Errorf("encode raffle record: %w", err)
	}
	logRef, err := pda.Parse(r.CertificateLogRef)
	if err != nil {
		return nil, fmt.Errorf("encode raffle record: %w", err)
	}
	escrow, err := pda.Parse(r.EscrowAddress)
	if err != nil {
		return nil, fmt.Errorf("encode raffle record: %w", err)
	}

	record := make([]byte, RaffleRecordSize)
	copy(record[0:32], organizer[:])
	copy(record[32:64], logRef[:])
	copy(record[64:96], escrow[:])
	binary.LittleEndian.PutUint64(record[96:104], uint64(r.EndTimestamp))
	binary.LittleEndian.PutUint64(record[104:112], r.TicketPrice)
	return record, nil
}

// UnmarshalBinary decodes a fixed-size raffle record. A record of the wrong
// length is structurally invalid.
func (r *Raffle) UnmarshalBinary(record []byte) error {
	if len(record) != RaffleRecordSize {
		return fmt.Errorf("raffle record is %d bytes, want %d: %w", len(record), RaffleRecordSize, ErrInvalidAccountData)
	}

	var organizer, logRef, escrow pda.Address
	copy(organizer[:], record[0:32])
	copy(logRef[:], record[32:64])
	copy(escrow[:], record[64:96])

	r.Organizer = organizer.String()
	r.CertificateLogRef = logRef.String()
	r.EscrowAddress = escrow.String()
	r.EndTimestamp = int64(binary.LittleEndian.Uint64(record[96:104]))
	r.TicketPrice = binary.LittleEndian.Uint64(record[104:112])
	return nil
}
