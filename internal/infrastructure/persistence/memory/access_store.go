package memory

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// AccessStore is the in-memory authorization state: educator grants and the
// global paused flag. The ledger starts unpaused.
type AccessStore struct {
	mu sync.RWMutex

	// educators is the set of granted educator addresses.
	educators map[shared.Address]bool

	// paused is the global pause flag.
	paused bool
}

// NewAccessStore creates an access store with no grants, unpaused.
func NewAccessStore() *AccessStore {
	return &AccessStore{
		educators: make(map[shared.Address]bool),
	}
}

// IsEducator implements access.Repository.
func (s *AccessStore) IsEducator(ctx context.Context, addr shared.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.educators[addr], nil
}

// SetEducator implements access.Repository.
func (s *AccessStore) SetEducator(ctx context.Context, addr shared.Address, granted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if granted {
		s.educators[addr] = true
	} else {
		delete(s.educators, addr)
	}
	return nil
}

// IsPaused implements access.Repository.
func (s *AccessStore) IsPaused(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paused, nil
}

// SetPaused implements access.Repository.
func (s *AccessStore) SetPaused(ctx context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.paused = paused
	return nil
}
