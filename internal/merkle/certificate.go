package merkle

import (
	"encoding/json"
	"fmt"

	"github.com/craffles/raffle-backend/internal/models"
	"github.com/craffles/raffle-backend/internal/pda"
)

// CertificateLeaf computes the leaf hash for a ticket certificate at the
// given append position. The payload is the canonical JSON encoding of the
// metadata, so any tampering with the stored certificate breaks the
// commitment.
func CertificateLeaf(logRef string, index uint64, owner string, metadata models.CertificateMetadata) (Hash, error) {
	logAddr, err := pda.Parse(logRef)
	if err != nil {
		return Hash{}, fmt.Errorf("certificate log ref: %w", err)
	}
	ownerAddr, err := pda.Parse(owner)
	if err != nil {
		return Hash{}, fmt.Errorf("certificate owner: %w", err)
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return Hash{}, fmt.Errorf("encode certificate metadata: %w", err)
	}
	return Leaf(logAddr, index, ownerAddr, payload), nil
}
