package postgres

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
)

// LeaderboardRepository is the pgx-backed per-user score table.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

// GetScore implements leaderboard.Repository. Unknown users score 0.
func (r *LeaderboardRepository) GetScore(ctx context.Context, userID uint64) (uint32, error) {
	query := `SELECT score FROM leaderboard_scores WHERE user_id = $1`

	var score int64
	err := r.conn.QueryRow(ctx, query, int64(userID)).Scan(&score)
	if err != nil {
		if IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get score: %w", err)
	}
	return uint32(score), nil
}

// SetScore implements leaderboard.Repository. Last write wins.
func (r *LeaderboardRepository) SetScore(ctx context.Context, entry leaderboard.Entry) error {
	query := `
		INSERT INTO leaderboard_scores (user_id, score, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query, int64(entry.UserID), int64(entry.Score), entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}
	return nil
}
