package memory

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// CredentialStore is the in-memory credential registry with the per-owner
// credential index.
type CredentialStore struct {
	mu sync.RWMutex

	// credentials holds all credentials indexed by id.
	credentials map[uint64]credential.Credential

	// index maps owner address to credential ids in issuance order.
	index map[shared.Address][]uint64

	// nextID is the monotonic credential id counter.
	nextID uint64
}

// NewCredentialStore creates an empty credential store with the id counter at 1.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		credentials: make(map[uint64]credential.Credential),
		index:       make(map[shared.Address][]uint64),
		nextID:      1,
	}
}

// NextID implements credential.Repository.
func (s *CredentialStore) NextID(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id, nil
}

// Save implements credential.Repository. The credential id is appended to
// the owner's index exactly once.
func (s *CredentialStore) Save(ctx context.Context, c *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.credentials[c.ID]; !exists {
		s.index[c.Owner] = append(s.index[c.Owner], c.ID)
	}
	stored := *c
	stored.VerificationTag = append([]byte(nil), c.VerificationTag...)
	s.credentials[c.ID] = stored
	return nil
}

// GetByID implements credential.Repository.
func (s *CredentialStore) GetByID(ctx context.Context, id uint64) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.credentials[id]
	if !ok {
		return nil, credential.ErrNotFound
	}
	out := c
	out.VerificationTag = append([]byte(nil), c.VerificationTag...)
	return &out, nil
}

// ListIDsByOwner implements credential.Repository.
func (s *CredentialStore) ListIDsByOwner(ctx context.Context, owner shared.Address) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index[owner]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}
