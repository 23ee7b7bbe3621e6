// Package command contains write operations (CQRS - Commands).
// Every handler checks the pause guard first, then authorization, then
// input ranges; the first failing precondition aborts the invocation
// before any store write.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE QUEST COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateQuestCommand contains the data to create a quest.
type CreateQuestCommand struct {
	// Caller is the invoking identity. Must be the owner.
	Caller shared.Address

	// Type is the quest category.
	Type quest.Type

	// Difficulty is the quest difficulty (1..5).
	Difficulty quest.Difficulty

	// XPReward is the XP granted on completion (must be positive).
	XPReward uint32

	// RewardAmount is the optional native-currency reward.
	RewardAmount uint64

	// Criteria is the opaque completion criteria text.
	Criteria string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command ranges.
func (c CreateQuestCommand) Validate() error {
	if !c.Type.IsValid() {
		return quest.ErrInvalidType
	}
	if !c.Difficulty.IsValid() {
		return quest.ErrInvalidDifficulty
	}
	if c.XPReward == 0 {
		return quest.ErrInvalidXPReward
	}
	return nil
}

// CreateQuestResult contains the result of creating a quest.
type CreateQuestResult struct {
	// QuestID is the allocated monotonic id.
	QuestID uint64

	// CreatedAt is when the quest was created.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CreateQuestHandler handles the CreateQuestCommand.
type CreateQuestHandler struct {
	quests    quest.Repository
	auth      *access.Authorizer
	publisher shared.EventPublisher
	tx        shared.TxRunner
	clock     shared.Clock
	log       *logger.Logger
}

// NewCreateQuestHandler creates a new CreateQuestHandler.
func NewCreateQuestHandler(
	quests quest.Repository,
	auth *access.Authorizer,
	publisher shared.EventPublisher,
	tx shared.TxRunner,
	clock shared.Clock,
	log *logger.Logger,
) *CreateQuestHandler {
	return &CreateQuestHandler{
		quests:    quests,
		auth:      auth,
		publisher: publisher,
		tx:        tx,
		clock:     clock,
		log:       log.With(logger.Component("command")),
	}
}

// Handle executes the create quest command.
func (h *CreateQuestHandler) Handle(ctx context.Context, cmd CreateQuestCommand) (*CreateQuestResult, error) {
	if err := h.auth.EnsureActive(ctx); err != nil {
		return nil, err
	}

	if err := h.auth.RequireOwner(cmd.Caller); err != nil {
		return nil, err
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	// The counter advance and the insert commit together.
	var q *quest.Quest
	err := h.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := h.quests.NextID(ctx)
		if err != nil {
			return fmt.Errorf("create_quest: allocate id: %w", err)
		}

		q, err = quest.NewQuest(quest.NewQuestParams{
			ID:           id,
			Type:         cmd.Type,
			Difficulty:   cmd.Difficulty,
			XPReward:     cmd.XPReward,
			RewardAmount: cmd.RewardAmount,
			Criteria:     cmd.Criteria,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		if err := h.quests.Save(ctx, q); err != nil {
			return fmt.Errorf("create_quest: save quest: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := shared.NewQuestCreatedEvent(q.ID, q.Type.String(), uint8(q.Difficulty), q.XPReward, now)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.publisher.Publish(event)

	h.log.Info("quest created",
		logger.QuestID(q.ID),
		logger.String("quest_type", q.Type.String()),
		logger.XPAmount(q.XPReward),
	)

	return &CreateQuestResult{QuestID: q.ID, CreatedAt: now}, nil
}
