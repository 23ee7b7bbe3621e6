package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ScoreCache is a read-through cache over a leaderboard repository.
//
// Architecture:
//   - String "score:{userID}" holds the user's score with a TTL
//   - Sorted Set "ranking:scores" holds userID -> score for top-N queries
//
// Writes go to the backing repository first; the cache is refreshed after a
// successful write, so the store stays authoritative. Cache failures degrade
// to repository reads rather than failing the operation.
type ScoreCache struct {
	cache *Cache
	store leaderboard.Repository
	ttl   time.Duration
}

// NewScoreCache creates a ScoreCache over the given backing repository.
func NewScoreCache(cache *Cache, store leaderboard.Repository) *ScoreCache {
	return &ScoreCache{
		cache: cache,
		store: store,
		ttl:   TTLScoreCache,
	}
}

// GetScore implements leaderboard.Repository. On a cache miss the score is
// fetched from the backing store and cached.
func (s *ScoreCache) GetScore(ctx context.Context, userID uint64) (uint32, error) {
	var cached uint32
	err := s.cache.Get(ctx, ScoreKey(userID), &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		// Degrade to the store on cache errors.
		return s.store.GetScore(ctx, userID)
	}

	score, err := s.store.GetScore(ctx, userID)
	if err != nil {
		return 0, err
	}

	// Best effort: a failed refresh only costs the next read a store hit.
	_ = s.cache.Set(ctx, ScoreKey(userID), score, s.ttl)

	return score, nil
}

// SetScore implements leaderboard.Repository. The backing store is written
// first; the cache and ranking set are refreshed only on success.
func (s *ScoreCache) SetScore(ctx context.Context, entry leaderboard.Entry) error {
	if err := s.store.SetScore(ctx, entry); err != nil {
		return err
	}

	pipe := s.cache.Client().Pipeline()
	pipe.Set(ctx, ScoreKey(entry.UserID), entry.Score, s.ttl)
	pipe.ZAdd(ctx, PrefixRanking, redis.Z{
		Score:  float64(entry.Score),
		Member: strconv.FormatUint(entry.UserID, 10),
	})
	_, _ = pipe.Exec(ctx)

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// RankedScore is one entry of the cached ranking.
type RankedScore struct {
	UserID uint64 `json:"user_id"`
	Score  uint32 `json:"score"`
	Rank   int64  `json:"rank"`
}

// Top returns the highest-scoring users, best first. Only users whose scores
// passed through this cache appear; the backing store remains authoritative.
func (s *ScoreCache) Top(ctx context.Context, count int) ([]RankedScore, error) {
	if count <= 0 {
		return []RankedScore{}, nil
	}

	members, err := s.cache.Client().ZRevRangeWithScores(ctx, PrefixRanking, 0, int64(count-1)).Result()
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedScore, 0, len(members))
	for i, m := range members {
		id, ok := m.Member.(string)
		if !ok {
			continue
		}
		userID, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			continue
		}
		ranked = append(ranked, RankedScore{
			UserID: userID,
			Score:  uint32(m.Score),
			Rank:   int64(i) + 1,
		})
	}

	return ranked, nil
}

// Rank returns the 1-based rank of a user in the cached ranking.
// Returns ErrCacheMiss if the user has no cached score.
func (s *ScoreCache) Rank(ctx context.Context, userID uint64) (int64, error) {
	rank, err := s.cache.Client().ZRevRank(ctx, PrefixRanking, strconv.FormatUint(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, err
	}
	return rank + 1, nil
}

// Invalidate drops a user's cached score and ranking membership.
func (s *ScoreCache) Invalidate(ctx context.Context, userID uint64) error {
	pipe := s.cache.Client().Pipeline()
	pipe.Del(ctx, ScoreKey(userID))
	pipe.ZRem(ctx, PrefixRanking, strconv.FormatUint(userID, 10))
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateAll drops the whole cached ranking.
func (s *ScoreCache) InvalidateAll(ctx context.Context) error {
	return s.cache.Client().Del(ctx, PrefixRanking).Err()
}
