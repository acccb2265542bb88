// Package merkle computes the tamper-evident commitment over a certificate
// log. Every appended certificate becomes one leaf; the log's commitment is
// the root of a binary tree over the leaves in append order.
package merkle

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/craffles/raffle-backend/internal/pda"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// Domain separation keys for leaf and interior-node hashing. The byte
// values are the ASCII domain name zero-padded to 32 bytes; readable in hex
// dumps, opaque to BLAKE3 keyed mode. Changing either key invalidates every
// stored commitment.
var (
	leafKey = [32]byte{
		'c', 'r', 'a', 'f', 'f', 'l', 'e', 's', '.', 'c', 'e', 'r', 't', 'l', 'o', 'g',
		'.', 'l', 'e', 'a', 'f', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	nodeKey = [32]byte{
		'c', 'r', 'a', 'f', 'f', 'l', 'e', 's', '.', 'c', 'e', 'r', 't', 'l', 'o', 'g',
		'.', 'n', 'o', 'd', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

func keyedHash(key [32]byte, parts ...[]byte) Hash {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("merkle: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	for _, part := range parts {
		hasher.Write(part)
	}
	var out Hash
	copy(out[:], hasher.Sum(nil))
	return out
}

// Leaf computes the leaf hash for one certificate: the log it belongs to,
// its position in append order, the owner it was issued to, and the encoded
// certificate payload.
func Leaf(logRef pda.Address, index uint64, owner pda.Address, payload []byte) Hash {
	var indexBytes [8]byte
	binary.BigEndian.PutUint64(indexBytes[:], index)
	return keyedHash(leafKey, logRef[:], indexBytes[:], owner[:], payload)
}

// Root reduces the leaves bottom-up to the commitment. Adjacent pairs are
// concatenated and hashed with the node key; an odd trailing node is
// promoted to the next level unchanged rather than duplicated (duplication
// would let two different logs share a root when one is a prefix of the
// other). An empty log commits to the zero hash.
func Root(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return Hash{}
	}

	level := make([]Hash, len(leaves))
	copy(level, leaves)

	var combined [64]byte
	for len(level) > 1 {
		next := make([]Hash, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			copy(combined[:32], level[i][:])
			copy(combined[32:], level[i+1][:])
			next[i/2] = keyedHash(nodeKey, combined[:])
		}
		if len(level)%2 == 1 {
			next[len(next)-1] = level[len(level)-1]
		}
		level = next
	}
	return level[0]
}

// ParseHash decodes a hex-encoded hash.
func ParseHash(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return Hash{}, errInvalidHash(s)
	}
	var h Hash
	copy(h[:], raw)
	return h, nil
}

type errInvalidHash string

func (e errInvalidHash) Error() string {
	return "merkle: invalid hash " + string(e)
}

// String returns the canonical lowercase hex encoding.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}
