// Package application assembles the ledger engine: the command handlers,
// the read-side queries, and the single serialization point that gives
// every mutating invocation whole-invocation atomicity.
package application

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/application/command"
	"github.com/elronom/academy-ledger/internal/application/query"
	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/internal/infrastructure/reward"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// Stores bundles the five store interfaces the engine owns. The host picks
// an implementation (memory or postgres) at boot; the semantics are the
// same either way.
type Stores struct {
	Quests      quest.Repository
	Completions quest.CompletionRepository
	Progresses  progress.Repository
	Credentials credential.Repository
	Scores      leaderboard.Repository
	Access      access.Repository
}

// Config contains the engine dependencies.
type Config struct {
	// Owner is the single identity with owner-gated rights. Fixed for the
	// lifetime of the engine.
	Owner shared.Address

	// Stores are the owned entity stores.
	Stores Stores

	// Publisher receives one audit event per committed mutation.
	Publisher shared.EventPublisher

	// Disburser transfers native-currency quest rewards.
	Disburser reward.Disburser

	// Hasher derives credential verification tags.
	Hasher credential.TagHasher

	// Tx scopes the multi-store writes of one invocation to a single unit
	// of work. Defaults to a pass-through runner, which is correct for the
	// in-memory stores.
	Tx shared.TxRunner

	// Clock supplies timestamps. Defaults to the system clock.
	Clock shared.Clock

	// Logger for structured logging. Defaults to the package default.
	Logger *logger.Logger
}

// Engine is the deterministic state-transition core of the ledger. One
// mutex serializes every mutating invocation end to end; read-only queries
// go straight to the stores, which guard themselves.
type Engine struct {
	mu sync.Mutex

	auth    *access.Authorizer
	queries *query.Queries

	createQuest       *command.CreateQuestHandler
	completeQuest     *command.CompleteQuestHandler
	mintCredential    *command.MintCredentialHandler
	updateLeaderboard *command.UpdateLeaderboardHandler
	admin             *command.AdminHandler
}

// NewEngine wires an engine from its dependencies.
func NewEngine(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = shared.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Tx == nil {
		cfg.Tx = shared.NopTxRunner{}
	}

	auth := access.NewAuthorizer(cfg.Owner, cfg.Stores.Access)

	return &Engine{
		auth: auth,
		queries: query.NewQueries(
			cfg.Stores.Quests,
			cfg.Stores.Progresses,
			cfg.Stores.Credentials,
			cfg.Stores.Scores,
			auth,
		),
		createQuest: command.NewCreateQuestHandler(
			cfg.Stores.Quests, auth, cfg.Publisher, cfg.Tx, cfg.Clock, cfg.Logger,
		),
		completeQuest: command.NewCompleteQuestHandler(
			cfg.Stores.Quests, cfg.Stores.Completions, cfg.Stores.Progresses,
			cfg.Disburser, auth, cfg.Publisher, cfg.Tx, cfg.Clock, cfg.Logger,
		),
		mintCredential: command.NewMintCredentialHandler(
			cfg.Stores.Credentials, cfg.Stores.Progresses, cfg.Hasher,
			auth, cfg.Publisher, cfg.Tx, cfg.Clock, cfg.Logger,
		),
		updateLeaderboard: command.NewUpdateLeaderboardHandler(
			cfg.Stores.Scores, auth, cfg.Publisher, cfg.Clock, cfg.Logger,
		),
		admin: command.NewAdminHandler(auth, cfg.Logger),
	}
}

// Owner returns the fixed owner address.
func (e *Engine) Owner() shared.Address {
	return e.auth.Owner()
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATING OPERATIONS (serialized)
// ══════════════════════════════════════════════════════════════════════════════

// CreateQuest creates a new quest. Owner-only.
func (e *Engine) CreateQuest(ctx context.Context, cmd command.CreateQuestCommand) (*command.CreateQuestResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createQuest.Handle(ctx, cmd)
}

// CompleteQuest records a quest completion for the caller.
func (e *Engine) CompleteQuest(ctx context.Context, cmd command.CompleteQuestCommand) (*command.CompleteQuestResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completeQuest.Handle(ctx, cmd)
}

// MintCredential issues an educational credential. Educator-only.
func (e *Engine) MintCredential(ctx context.Context, cmd command.MintCredentialCommand) (*command.MintCredentialResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mintCredential.Handle(ctx, cmd)
}

// UpdateLeaderboard overwrites a user's score. Educator-only.
func (e *Engine) UpdateLeaderboard(ctx context.Context, cmd command.UpdateLeaderboardCommand) (*command.UpdateLeaderboardResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateLeaderboard.Handle(ctx, cmd)
}

// Pause halts every mutating operation. Owner-only, idempotent.
func (e *Engine) Pause(ctx context.Context, caller shared.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin.HandleSetPaused(ctx, command.SetPausedCommand{Caller: caller, Paused: true})
}

// Unpause resumes mutating operations. Owner-only, idempotent.
func (e *Engine) Unpause(ctx context.Context, caller shared.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin.HandleSetPaused(ctx, command.SetPausedCommand{Caller: caller, Paused: false})
}

// GrantEducator grants the educator role. Owner-only.
func (e *Engine) GrantEducator(ctx context.Context, caller, educator shared.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin.HandleSetEducator(ctx, command.SetEducatorCommand{Caller: caller, Educator: educator, Granted: true})
}

// RevokeEducator revokes the educator role. Owner-only; revoking a
// non-granted address is a no-op.
func (e *Engine) RevokeEducator(ctx context.Context, caller, educator shared.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.admin.HandleSetEducator(ctx, command.SetEducatorCommand{Caller: caller, Educator: educator, Granted: false})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ-ONLY OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Queries exposes the read side. Available while paused.
func (e *Engine) Queries() *query.Queries {
	return e.queries
}
