package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ProgressRepository is the pgx-backed user progress ledger.
type ProgressRepository struct {
	conn *Connection
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(conn *Connection) *ProgressRepository {
	return &ProgressRepository{conn: conn}
}

// GetOrCreate implements progress.Repository. The default record (level 1,
// everything else zero) is inserted on first access.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, user shared.Address) (*progress.Progress, error) {
	insert := `
		INSERT INTO user_progress (user_address)
		VALUES ($1)
		ON CONFLICT (user_address) DO NOTHING
	`
	if _, err := r.conn.Exec(ctx, insert, user.String()); err != nil {
		return nil, fmt.Errorf("failed to materialize progress: %w", err)
	}

	query := `
		SELECT total_xp, level, completed_quests, streak_days, badges_earned, prediction_accuracy, last_activity
		FROM user_progress
		WHERE user_address = $1
	`

	var (
		p               progress.Progress
		totalXP         int64
		level           int16
		completedQuests int64
		streakDays      int32
		badges          int32
		accuracy        int16
		lastActivity    *time.Time
	)
	err := r.conn.QueryRow(ctx, query, user.String()).Scan(
		&totalXP, &level, &completedQuests, &streakDays, &badges, &accuracy, &lastActivity,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	p.User = user
	p.TotalXP = uint32(totalXP)
	p.Level = uint8(level)
	p.CompletedQuests = uint32(completedQuests)
	p.StreakDays = uint16(streakDays)
	p.BadgesEarned = uint16(badges)
	p.PredictionAccuracy = uint8(accuracy)
	if lastActivity != nil {
		p.LastActivity = *lastActivity
	}

	return &p, nil
}

// Save implements progress.Repository.
func (r *ProgressRepository) Save(ctx context.Context, p *progress.Progress) error {
	query := `
		INSERT INTO user_progress (
			user_address, total_xp, level, completed_quests, streak_days,
			badges_earned, prediction_accuracy, last_activity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_address) DO UPDATE SET
			total_xp = EXCLUDED.total_xp,
			level = EXCLUDED.level,
			completed_quests = EXCLUDED.completed_quests,
			streak_days = EXCLUDED.streak_days,
			badges_earned = EXCLUDED.badges_earned,
			prediction_accuracy = EXCLUDED.prediction_accuracy,
			last_activity = EXCLUDED.last_activity
	`

	var lastActivity *time.Time
	if !p.LastActivity.IsZero() {
		lastActivity = &p.LastActivity
	}

	_, err := r.conn.Exec(ctx, query,
		p.User.String(),
		int64(p.TotalXP),
		int16(p.Level),
		int64(p.CompletedQuests),
		int32(p.StreakDays),
		int32(p.BadgesEarned),
		int16(p.PredictionAccuracy),
		lastActivity,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	return nil
}
