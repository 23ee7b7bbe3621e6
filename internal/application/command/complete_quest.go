package command

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/internal/infrastructure/reward"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE QUEST COMMAND
// The one write path that touches three stores. Precondition order:
// paused, accuracy range, quest existence, quest active, duplicate
// completion. The external disbursement runs after all checks and before
// the first store write, so a gateway failure leaves no partial state.
// The completion record and the progress update commit as one unit of
// work, so a mid-invocation store failure leaves no partial state either.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteQuestCommand contains the data to complete a quest.
type CompleteQuestCommand struct {
	// Caller is the invoking identity; the completion is recorded for it.
	Caller shared.Address

	// QuestID identifies the quest being completed.
	QuestID uint64

	// AccuracyScore is the completion accuracy in percent (0..100).
	AccuracyScore quest.AccuracyScore

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command ranges.
func (c CompleteQuestCommand) Validate() error {
	if !c.AccuracyScore.IsValid() {
		return quest.ErrInvalidAccuracy
	}
	return nil
}

// CompleteQuestResult contains the result of completing a quest.
type CompleteQuestResult struct {
	// QuestID is the completed quest.
	QuestID uint64

	// XPEarned is the XP credited to the caller.
	XPEarned uint32

	// TotalXP is the caller's XP after crediting.
	TotalXP uint32

	// LeveledUp indicates the derived level increased.
	LeveledUp bool

	// NewLevel is the caller's level after crediting.
	NewLevel uint8

	// RewardDisbursed indicates a native-currency reward was transferred.
	RewardDisbursed bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CompleteQuestHandler handles the CompleteQuestCommand.
type CompleteQuestHandler struct {
	quests      quest.Repository
	completions quest.CompletionRepository
	progresses  progress.Repository
	disburser   reward.Disburser
	auth        *access.Authorizer
	publisher   shared.EventPublisher
	tx          shared.TxRunner
	clock       shared.Clock
	log         *logger.Logger
}

// NewCompleteQuestHandler creates a new CompleteQuestHandler.
func NewCompleteQuestHandler(
	quests quest.Repository,
	completions quest.CompletionRepository,
	progresses progress.Repository,
	disburser reward.Disburser,
	auth *access.Authorizer,
	publisher shared.EventPublisher,
	tx shared.TxRunner,
	clock shared.Clock,
	log *logger.Logger,
) *CompleteQuestHandler {
	return &CompleteQuestHandler{
		quests:      quests,
		completions: completions,
		progresses:  progresses,
		disburser:   disburser,
		auth:        auth,
		publisher:   publisher,
		tx:          tx,
		clock:       clock,
		log:         log.With(logger.Component("command")),
	}
}

// Handle executes the complete quest command.
func (h *CompleteQuestHandler) Handle(ctx context.Context, cmd CompleteQuestCommand) (*CompleteQuestResult, error) {
	if err := h.auth.EnsureActive(ctx); err != nil {
		return nil, err
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q, err := h.quests.GetByID(ctx, cmd.QuestID)
	if err != nil {
		return nil, err
	}

	if !q.CanBeCompleted() {
		return nil, quest.ErrInactive
	}

	done, err := h.completions.IsCompleted(ctx, cmd.Caller, cmd.QuestID)
	if err != nil {
		return nil, fmt.Errorf("complete_quest: check completion: %w", err)
	}
	if done {
		return nil, quest.ErrAlreadyCompleted
	}

	// Stage every progress mutation on a copy before anything is written.
	p, err := h.progresses.GetOrCreate(ctx, cmd.Caller)
	if err != nil {
		return nil, fmt.Errorf("complete_quest: load progress: %w", err)
	}

	now := h.clock.Now()
	leveledUp, newLevel := p.CreditXP(q.XPReward)
	p.IncrementCompletedQuests()
	p.FoldAccuracy(uint8(cmd.AccuracyScore))
	p.TouchActivity(now)

	if q.HasNativeReward() {
		if err := h.disburser.Disburse(ctx, cmd.Caller, q.RewardAmount); err != nil {
			return nil, err
		}
	}

	err = h.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := h.completions.MarkCompleted(ctx, cmd.Caller, cmd.QuestID); err != nil {
			return fmt.Errorf("complete_quest: mark completion: %w", err)
		}
		if err := h.progresses.Save(ctx, p); err != nil {
			return fmt.Errorf("complete_quest: save progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if leveledUp {
		levelEvent := shared.NewLevelUpEvent(cmd.Caller, newLevel, now)
		if cmd.CorrelationID != "" {
			levelEvent.BaseEvent = levelEvent.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(levelEvent)
	}

	event := shared.NewQuestCompletedEvent(cmd.Caller, q.ID, q.XPReward, uint8(cmd.AccuracyScore), now)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.publisher.Publish(event)

	h.log.Info("quest completed",
		logger.UserAddr(cmd.Caller.String()),
		logger.QuestID(q.ID),
		logger.XPAmount(q.XPReward),
	)

	return &CompleteQuestResult{
		QuestID:         q.ID,
		XPEarned:        q.XPReward,
		TotalXP:         p.TotalXP,
		LeveledUp:       leveledUp,
		NewLevel:        p.Level,
		RewardDisbursed: q.HasNativeReward(),
	}, nil
}
