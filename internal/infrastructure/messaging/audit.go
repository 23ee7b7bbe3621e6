package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// AuditTrail is an append-only record of every event published on the bus.
// It mirrors the on-chain event log of the original platform: each mutating
// operation leaves exactly one entry per emitted event.
type AuditTrail struct {
	mu      sync.RWMutex
	entries []shared.EventEnvelope
}

// NewAuditTrail creates an empty audit trail.
func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

// Attach subscribes the trail to all events on the bus.
func (t *AuditTrail) Attach(bus shared.EventSubscriber) error {
	return bus.SubscribeAll(t.record)
}

// record appends one envelope per observed event.
func (t *AuditTrail) record(event shared.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return err
	}

	envelope := shared.EventEnvelope{
		ID:          uuid.NewString(),
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		Timestamp:   event.OccurredAt(),
		Version:     1,
		Payload:     payload,
	}

	t.mu.Lock()
	t.entries = append(t.entries, envelope)
	t.mu.Unlock()

	return nil
}

// Entries returns a copy of the recorded envelopes in publish order.
func (t *AuditTrail) Entries() []shared.EventEnvelope {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]shared.EventEnvelope, len(t.entries))
	copy(out, t.entries)
	return out
}

// EntriesSince returns envelopes recorded at or after the given time.
func (t *AuditTrail) EntriesSince(since time.Time) []shared.EventEnvelope {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []shared.EventEnvelope
	for _, e := range t.entries {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded envelopes.
func (t *AuditTrail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
