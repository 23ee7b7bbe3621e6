// Package memory implements the authoritative in-process stores for the
// ledger engine. Every store guards itself with its own lock so read-only
// queries can run against a live engine; id counters start at 1 and are
// initialized explicitly, never lazily.
package memory

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// QuestStore is the in-memory quest catalog with its completion table.
type QuestStore struct {
	mu sync.RWMutex

	// quests holds all quests indexed by id.
	quests map[uint64]quest.Quest

	// completions holds write-once completion flags per (user, quest).
	completions map[completionKey]bool

	// nextID is the monotonic quest id counter.
	nextID uint64
}

type completionKey struct {
	user    shared.Address
	questID uint64
}

// NewQuestStore creates an empty quest store with the id counter at 1.
func NewQuestStore() *QuestStore {
	return &QuestStore{
		quests:      make(map[uint64]quest.Quest),
		completions: make(map[completionKey]bool),
		nextID:      1,
	}
}

// NextID implements quest.Repository.
func (s *QuestStore) NextID(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id, nil
}

// Save implements quest.Repository.
func (s *QuestStore) Save(ctx context.Context, q *quest.Quest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quests[q.ID] = *q
	return nil
}

// GetByID implements quest.Repository.
func (s *QuestStore) GetByID(ctx context.Context, id uint64) (*quest.Quest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quests[id]
	if !ok {
		return nil, quest.ErrNotFound
	}
	return &q, nil
}

// IsCompleted implements quest.CompletionRepository.
func (s *QuestStore) IsCompleted(ctx context.Context, user shared.Address, questID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.completions[completionKey{user: user, questID: questID}], nil
}

// MarkCompleted implements quest.CompletionRepository.
func (s *QuestStore) MarkCompleted(ctx context.Context, user shared.Address, questID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completions[completionKey{user: user, questID: questID}] = true
	return nil
}
