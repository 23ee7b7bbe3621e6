package memory

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ProgressStore is the in-memory user progress ledger.
// Records are materialized lazily on first access.
type ProgressStore struct {
	mu sync.RWMutex

	// records holds progress records indexed by user address.
	records map[shared.Address]progress.Progress
}

// NewProgressStore creates an empty progress store.
func NewProgressStore() *ProgressStore {
	return &ProgressStore{
		records: make(map[shared.Address]progress.Progress),
	}
}

// GetOrCreate implements progress.Repository.
func (s *ProgressStore) GetOrCreate(ctx context.Context, user shared.Address) (*progress.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[user]
	if !ok {
		p = *progress.NewProgress(user)
		s.records[user] = p
	}
	out := p
	return &out, nil
}

// Save implements progress.Repository.
func (s *ProgressStore) Save(ctx context.Context, p *progress.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[p.User] = *p
	return nil
}
