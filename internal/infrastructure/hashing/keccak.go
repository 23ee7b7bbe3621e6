// Package hashing implements the verification-tag hasher for credentials.
package hashing

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// KeccakTagHasher derives credential verification tags with legacy
// Keccak-256, the hash the platform chain uses. The tag binds a credential
// to its issuance context without revealing the derivation inputs.
type KeccakTagHasher struct{}

// NewKeccakTagHasher creates a KeccakTagHasher.
func NewKeccakTagHasher() *KeccakTagHasher {
	return &KeccakTagHasher{}
}

// Tag implements credential.TagHasher. The preimage is the owner's raw
// bytes, the course id, and the unix issuance timestamp, both integers
// big-endian.
func (KeccakTagHasher) Tag(owner shared.Address, courseID uint64, issuedAt time.Time) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(owner.Bytes())

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], courseID)
	h.Write(buf[:])

	binary.BigEndian.PutUint64(buf[:], uint64(issuedAt.Unix()))
	h.Write(buf[:])

	return h.Sum(nil)
}
