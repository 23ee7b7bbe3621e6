package memory

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
)

// LeaderboardStore is the in-memory per-user score table.
type LeaderboardStore struct {
	mu sync.RWMutex

	// entries holds current scores indexed by user id.
	entries map[uint64]leaderboard.Entry
}

// NewLeaderboardStore creates an empty score table.
func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{
		entries: make(map[uint64]leaderboard.Entry),
	}
}

// GetScore implements leaderboard.Repository. Unknown users score 0.
func (s *LeaderboardStore) GetScore(ctx context.Context, userID uint64) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.entries[userID].Score, nil
}

// SetScore implements leaderboard.Repository. Last write wins.
func (s *LeaderboardStore) SetScore(ctx context.Context, entry leaderboard.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.UserID] = entry
	return nil
}
