package pda

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Address is a 32-byte derived account address. Raffle, escrow and ledger
// account addresses are all this size and are rendered as lowercase hex at
// the API boundary.
type Address [32]byte

// Zero is the all-zero address, used as the "unset" value.
var Zero Address

// Namespace tags for address derivation. Changing a tag invalidates every
// address previously derived in that namespace.
const (
	NamespaceRaffle   = "raffle"
	NamespaceProceeds = "proceeds"
	NamespaceAccount  = "account"
)

// derivationKey builds the 32-byte BLAKE3 key for a namespace. The key is
// the ASCII namespace name zero-padded to 32 bytes, so keys stay readable
// in hex dumps while keeping namespaces cryptographically separated.
func derivationKey(namespace string) ([]byte, error) {
	if namespace == "" || len(namespace) > 32 {
		return nil, fmt.Errorf("pda: invalid namespace %q", namespace)
	}
	key := make([]byte, 32)
	copy(key, namespace)
	return key, nil
}

// Derive computes the deterministic address for a child record of parent in
// the given namespace. It is a pure function: the same (namespace, parent)
// pair always yields the same address, and distinct pairs yield distinct
// addresses up to BLAKE3 collision resistance. There is no registry; the
// uniqueness invariant "one child per parent per namespace" is enforced by
// whoever stores records keyed by the derived address.
func Derive(namespace string, parent Address) (Address, error) {
	key, err := derivationKey(namespace)
	if err != nil {
		return Zero, err
	}
	hasher, err := blake3.NewKeyed(key)
	if err != nil {
		return Zero, fmt.Errorf("pda: keyed hash init: %w", err)
	}
	hasher.Write(parent[:])
	var addr Address
	copy(addr[:], hasher.Sum(nil))
	return addr, nil
}

// RaffleAddress derives the raffle record address from the certificate log
// identity it is bound to. One raffle per log, computable by anyone.
func RaffleAddress(certificateLogRef Address) (Address, error) {
	return Derive(NamespaceRaffle, certificateLogRef)
}

// ProceedsAddress derives the escrow account address from the raffle
// address.
func ProceedsAddress(raffle Address) (Address, error) {
	return Derive(NamespaceProceeds, raffle)
}

// New returns a fresh random address. Used for identities that are not
// derived from a parent, such as certificate log references and buyer
// identities created by clients.
func New() (Address, error) {
	var addr Address
	if _, err := rand.Read(addr[:]); err != nil {
		return Zero, fmt.Errorf("pda: generate address: %w", err)
	}
	return addr, nil
}

// Parse decodes a lowercase or uppercase hex address.
func Parse(s string) (Address, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("pda: invalid address %q: %w", s, err)
	}
	if len(raw) != len(Address{}) {
		return Zero, fmt.Errorf("pda: invalid address length %d, want %d", len(raw), len(Address{}))
	}
	var addr Address
	copy(addr[:], raw)
	return addr, nil
}

// String returns the canonical lowercase hex encoding.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}
