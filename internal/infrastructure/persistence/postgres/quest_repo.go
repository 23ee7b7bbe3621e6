package postgres

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// QuestRepository is the pgx-backed quest catalog and completion table.
type QuestRepository struct {
	conn *Connection
}

// NewQuestRepository creates a new QuestRepository.
func NewQuestRepository(conn *Connection) *QuestRepository {
	return &QuestRepository{conn: conn}
}

// NextID implements quest.Repository. The counter lives in the singleton
// engine_state row and is advanced atomically.
func (r *QuestRepository) NextID(ctx context.Context) (uint64, error) {
	query := `
		UPDATE engine_state
		SET quest_counter = quest_counter + 1
		WHERE singleton
		RETURNING quest_counter - 1
	`

	var id uint64
	if err := r.conn.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate quest id: %w", err)
	}
	return id, nil
}

// Save implements quest.Repository.
func (r *QuestRepository) Save(ctx context.Context, q *quest.Quest) error {
	query := `
		INSERT INTO quests (id, quest_type, difficulty, xp_reward, reward_amount, criteria, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			quest_type = EXCLUDED.quest_type,
			difficulty = EXCLUDED.difficulty,
			xp_reward = EXCLUDED.xp_reward,
			reward_amount = EXCLUDED.reward_amount,
			criteria = EXCLUDED.criteria,
			active = EXCLUDED.active
	`

	_, err := r.conn.Exec(ctx, query,
		int64(q.ID),
		q.Type.String(),
		int16(q.Difficulty),
		int64(q.XPReward),
		q.RewardAmount,
		q.Criteria,
		q.Active,
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quest: %w", err)
	}

	return nil
}

// GetByID implements quest.Repository.
func (r *QuestRepository) GetByID(ctx context.Context, id uint64) (*quest.Quest, error) {
	query := `
		SELECT id, quest_type, difficulty, xp_reward, reward_amount, criteria, active, created_at
		FROM quests
		WHERE id = $1
	`

	var (
		q          quest.Quest
		questType  string
		difficulty int16
		xpReward   int64
	)
	err := r.conn.QueryRow(ctx, query, int64(id)).Scan(
		&q.ID,
		&questType,
		&difficulty,
		&xpReward,
		&q.RewardAmount,
		&q.Criteria,
		&q.Active,
		&q.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, quest.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}

	q.Type = quest.Type(questType)
	q.Difficulty = quest.Difficulty(difficulty)
	q.XPReward = uint32(xpReward)

	return &q, nil
}

// IsCompleted implements quest.CompletionRepository.
func (r *QuestRepository) IsCompleted(ctx context.Context, user shared.Address, questID uint64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM quest_completions
			WHERE user_address = $1 AND quest_id = $2
		)
	`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, user.String(), int64(questID)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return exists, nil
}

// MarkCompleted implements quest.CompletionRepository. The primary key makes
// the false-to-true transition write-once.
func (r *QuestRepository) MarkCompleted(ctx context.Context, user shared.Address, questID uint64) error {
	query := `
		INSERT INTO quest_completions (user_address, quest_id)
		VALUES ($1, $2)
		ON CONFLICT (user_address, quest_id) DO NOTHING
	`

	if _, err := r.conn.Exec(ctx, query, user.String(), int64(questID)); err != nil {
		return fmt.Errorf("failed to mark completion: %w", err)
	}
	return nil
}
