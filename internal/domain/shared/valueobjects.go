// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// Address Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Address identifies a platform participant (user, educator, or owner).
// The engine treats addresses as opaque identifiers; representation and
// signature verification belong to the execution host.
type Address string

// IsValid checks that the address is non-empty after trimming.
func (a Address) IsValid() bool {
	return strings.TrimSpace(string(a)) != ""
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// String returns the string representation.
func (a Address) String() string {
	return string(a)
}

// Bytes returns the raw address bytes for hashing.
func (a Address) Bytes() []byte {
	return []byte(a)
}

// NewAddress creates a new Address with validation.
func NewAddress(s string) (Address, error) {
	addr := Address(strings.TrimSpace(s))
	if !addr.IsValid() {
		return "", NewDomainError("shared", "NewAddress", ErrEmptyValue, "address cannot be empty")
	}
	return addr, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Clock
// ═══════════════════════════════════════════════════════════════════════════

// Clock supplies timestamps to the engine. Operations never call time.Now
// directly so that state transitions stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock (UTC).
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct {
	Instant time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.Instant
}

// ═══════════════════════════════════════════════════════════════════════════
// Unit of Work
// ═══════════════════════════════════════════════════════════════════════════

// TxRunner executes fn as one atomic unit of work: every store write made
// through the context fn receives commits together or not at all.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxRunner runs fn directly, for stores whose writes are individually
// durable (the in-memory stores under the engine's serialization).
type NopTxRunner struct{}

// RunInTx implements TxRunner.
func (NopTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
