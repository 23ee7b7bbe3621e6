package command

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE LEADERBOARD COMMAND
// Unconditional overwrite: last write wins, no monotonicity enforced.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateLeaderboardCommand contains the data to overwrite a score.
type UpdateLeaderboardCommand struct {
	// Caller is the invoking identity. Must hold an educator grant.
	Caller shared.Address

	// UserID identifies the user in the score table.
	UserID uint64

	// NewScore replaces the stored score.
	NewScore uint32

	// CorrelationID for tracing.
	CorrelationID string
}

// UpdateLeaderboardResult contains the result of a score update.
type UpdateLeaderboardResult struct {
	// UserID is the updated user.
	UserID uint64

	// Score is the stored score after the update.
	Score uint32
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UpdateLeaderboardHandler handles the UpdateLeaderboardCommand.
type UpdateLeaderboardHandler struct {
	scores    leaderboard.Repository
	auth      *access.Authorizer
	publisher shared.EventPublisher
	clock     shared.Clock
	log       *logger.Logger
}

// NewUpdateLeaderboardHandler creates a new UpdateLeaderboardHandler.
func NewUpdateLeaderboardHandler(
	scores leaderboard.Repository,
	auth *access.Authorizer,
	publisher shared.EventPublisher,
	clock shared.Clock,
	log *logger.Logger,
) *UpdateLeaderboardHandler {
	return &UpdateLeaderboardHandler{
		scores:    scores,
		auth:      auth,
		publisher: publisher,
		clock:     clock,
		log:       log.With(logger.Component("command")),
	}
}

// Handle executes the update leaderboard command.
func (h *UpdateLeaderboardHandler) Handle(ctx context.Context, cmd UpdateLeaderboardCommand) (*UpdateLeaderboardResult, error) {
	if err := h.auth.EnsureActive(ctx); err != nil {
		return nil, err
	}

	if err := h.auth.RequireEducator(ctx, cmd.Caller); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	entry := leaderboard.Entry{UserID: cmd.UserID, Score: cmd.NewScore, UpdatedAt: now}
	if err := h.scores.SetScore(ctx, entry); err != nil {
		return nil, fmt.Errorf("update_leaderboard: set score: %w", err)
	}

	event := shared.NewLeaderboardUpdatedEvent(cmd.UserID, cmd.NewScore, now)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.publisher.Publish(event)

	h.log.Info("leaderboard updated",
		logger.Any("user_id", cmd.UserID),
		logger.Score(cmd.NewScore),
	)

	return &UpdateLeaderboardResult{UserID: cmd.UserID, Score: cmd.NewScore}, nil
}
