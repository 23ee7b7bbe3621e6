package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elronom/academy-ledger/internal/application/command"
	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/internal/infrastructure/hashing"
	"github.com/elronom/academy-ledger/internal/infrastructure/messaging"
	"github.com/elronom/academy-ledger/internal/infrastructure/persistence/memory"
	"github.com/elronom/academy-ledger/internal/infrastructure/reward"
	"github.com/elronom/academy-ledger/pkg/logger"
)

const (
	owner    = shared.Address("0xowner")
	educator = shared.Address("0xeducator")
	student  = shared.Address("0xstudent")
)

var testInstant = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// failingDisburser rejects every transfer.
type failingDisburser struct{}

var errGatewayDown = errors.New("gateway down")

func (failingDisburser) Disburse(context.Context, shared.Address, uint64) error {
	return errGatewayDown
}

// stubTxRunner counts units of work and optionally aborts them before any
// write runs.
type stubTxRunner struct {
	calls int
	fail  bool
}

var errTxAborted = errors.New("unit of work aborted")

func (r *stubTxRunner) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	r.calls++
	if r.fail {
		return errTxAborted
	}
	return fn(ctx)
}

type testEnv struct {
	engine    *Engine
	bus       *messaging.InMemoryEventBus
	trail     *messaging.AuditTrail
	disburser *reward.LedgerDisburser
	tx        *stubTxRunner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDisburser(t, nil)
}

func newTestEnvWithDisburser(t *testing.T, d reward.Disburser) *testEnv {
	t.Helper()

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.AsyncMode = false
	bus := messaging.NewInMemoryEventBus(busCfg)
	t.Cleanup(func() { _ = bus.Close() })

	trail := messaging.NewAuditTrail()
	require.NoError(t, trail.Attach(bus))

	ledgerDisburser := reward.NewLedgerDisburser(logger.Default())
	if d == nil {
		d = ledgerDisburser
	}

	tx := &stubTxRunner{}
	questStore := memory.NewQuestStore()
	engine := NewEngine(Config{
		Owner: owner,
		Stores: Stores{
			Quests:      questStore,
			Completions: questStore,
			Progresses:  memory.NewProgressStore(),
			Credentials: memory.NewCredentialStore(),
			Scores:      memory.NewLeaderboardStore(),
			Access:      memory.NewAccessStore(),
		},
		Publisher: bus,
		Disburser: d,
		Hasher:    hashing.NewKeccakTagHasher(),
		Tx:        tx,
		Clock:     shared.FixedClock{Instant: testInstant},
	})

	return &testEnv{engine: engine, bus: bus, trail: trail, disburser: ledgerDisburser, tx: tx}
}

func (env *testEnv) createQuest(t *testing.T, xp uint32, rewardAmount uint64) uint64 {
	t.Helper()
	res, err := env.engine.CreateQuest(context.Background(), command.CreateQuestCommand{
		Caller:       owner,
		Type:         quest.TypeDaily,
		Difficulty:   3,
		XPReward:     xp,
		RewardAmount: rewardAmount,
		Criteria:     "finish the module",
	})
	require.NoError(t, err)
	return res.QuestID
}

func (env *testEnv) grantEducator(t *testing.T) {
	t.Helper()
	require.NoError(t, env.engine.GrantEducator(context.Background(), owner, educator))
}

// ══════════════════════════════════════════════════════════════════════════════
// QUEST LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

func TestEngine_CreateQuest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	id1 := env.createQuest(t, 500, 0)
	id2 := env.createQuest(t, 900, 10)

	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)

	q, err := env.engine.Queries().GetQuest(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, uint32(500), q.XPReward)
	assert.True(t, q.Active)

	require.Equal(t, 2, env.trail.Len())
	assert.Equal(t, shared.EventQuestCreated, env.trail.Entries()[0].Type)
}

func TestEngine_CreateQuest_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)

	_, err := env.engine.CreateQuest(ctx, command.CreateQuestCommand{
		Caller:     educator,
		Type:       quest.TypeDaily,
		Difficulty: 3,
		XPReward:   500,
	})
	assert.ErrorIs(t, err, access.ErrNotOwner)
}

func TestEngine_CreateQuest_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.CreateQuest(ctx, command.CreateQuestCommand{
		Caller:     owner,
		Type:       quest.TypeDaily,
		Difficulty: 6,
		XPReward:   500,
	})
	assert.ErrorIs(t, err, quest.ErrInvalidDifficulty)

	_, err = env.engine.CreateQuest(ctx, command.CreateQuestCommand{
		Caller:     owner,
		Type:       quest.TypeDaily,
		Difficulty: 3,
		XPReward:   0,
	})
	assert.ErrorIs(t, err, quest.ErrInvalidXPReward)
}

func TestEngine_CompleteQuest(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)

	res, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller:        student,
		QuestID:       questID,
		AccuracyScore: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, uint32(500), res.XPEarned)
	assert.Equal(t, uint32(500), res.TotalXP)
	assert.True(t, res.LeveledUp, "500 XP maps to level 2")
	assert.Equal(t, uint8(2), res.NewLevel)
	assert.False(t, res.RewardDisbursed)

	p, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, uint32(500), p.TotalXP)
	assert.Equal(t, uint8(2), p.Level)
	assert.Equal(t, uint32(1), p.CompletedQuests)
	assert.Equal(t, uint8(40), p.PredictionAccuracy)
	assert.Equal(t, testInstant, p.LastActivity)

	// No transfer happens for quests without a native reward.
	assert.Empty(t, env.disburser.Transfers())
}

func TestEngine_CompleteQuest_DuplicateRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	require.NoError(t, err)

	before, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)

	_, err = env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 100,
	})
	assert.ErrorIs(t, err, quest.ErrAlreadyCompleted)

	after, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected completion must not change progress")
}

func TestEngine_CompleteQuest_Preconditions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 101,
	})
	assert.ErrorIs(t, err, quest.ErrInvalidAccuracy)

	_, err = env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: 99, AccuracyScore: 50,
	})
	assert.ErrorIs(t, err, quest.ErrNotFound)
}

func TestEngine_CompleteQuest_ZeroAccuracySkipsFold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 0,
	})
	require.NoError(t, err)

	p, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), p.PredictionAccuracy)
	assert.Equal(t, uint32(1), p.CompletedQuests, "zero accuracy still counts the completion")
}

func TestEngine_CompleteQuest_DisbursesNativeReward(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 2500)

	res, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 90,
	})
	require.NoError(t, err)
	assert.True(t, res.RewardDisbursed)

	transfers := env.disburser.Transfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, student, transfers[0].To)
	assert.Equal(t, uint64(2500), transfers[0].Amount)
}

func TestEngine_CompleteQuest_DisburseFailureLeavesNoState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnvWithDisburser(t, failingDisburser{})
	questID := env.createQuest(t, 500, 2500)

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 90,
	})
	require.Error(t, err)

	// Nothing was written: the quest is still completable and progress is untouched.
	p, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), p.TotalXP)
	assert.Equal(t, uint32(0), p.CompletedQuests)

	res, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: env.createQuest(t, 100, 0), AccuracyScore: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(100), res.TotalXP)
}

func TestEngine_MultiStoreWritesShareOneUnitOfWork(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	questID := env.createQuest(t, 500, 0)
	assert.Equal(t, 1, env.tx.calls, "quest creation commits counter and insert together")

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, env.tx.calls, "completion record and progress update commit together")

	env.grantEducator(t)
	_, err = env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer: educator, User: student, CourseID: 1, SkillLevel: 3, Type: credential.TypeCertificate,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, env.tx.calls, "credential insert and badge count commit together")
}

func TestEngine_UnitOfWorkFailureLeavesNoState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)
	env.grantEducator(t)

	env.tx.fail = true

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	assert.ErrorIs(t, err, errTxAborted)

	_, err = env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer: educator, User: student, CourseID: 1, SkillLevel: 3, Type: credential.TypeCertificate,
	})
	assert.ErrorIs(t, err, errTxAborted)

	p, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), p.TotalXP)
	assert.Equal(t, uint32(0), p.CompletedQuests)
	assert.Equal(t, uint16(0), p.BadgesEarned)

	ids, err := env.engine.Queries().ListCredentials(ctx, student)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Once the unit of work succeeds again, the quest is still completable.
	env.tx.fail = false
	res, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(500), res.TotalXP)
}

func TestEngine_CompleteQuest_EmitsLevelUpBeforeCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	questID := env.createQuest(t, 500, 0)

	_, err := env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	require.NoError(t, err)

	entries := env.trail.EntriesSince(time.Time{})
	require.GreaterOrEqual(t, len(entries), 3)
	// quest.created, then progress.level_up, then quest.completed.
	assert.Equal(t, shared.EventQuestCreated, entries[0].Type)
	assert.Equal(t, shared.EventLevelUp, entries[1].Type)
	assert.Equal(t, shared.EventQuestCompleted, entries[2].Type)
}

// ══════════════════════════════════════════════════════════════════════════════
// CREDENTIALS
// ══════════════════════════════════════════════════════════════════════════════

func TestEngine_MintCredential(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)

	res, err := env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer:     educator,
		User:       student,
		CourseID:   42,
		SkillLevel: 4,
		Type:       credential.TypeCertificate,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), res.CredentialID)
	assert.Len(t, res.VerificationTag, 32)

	c, err := env.engine.Queries().GetCredential(ctx, res.CredentialID)
	require.NoError(t, err)
	assert.Equal(t, student, c.Owner)
	assert.Equal(t, credential.IssuingAuthority, c.IssuingAuthority)
	assert.Equal(t, res.VerificationTag, c.VerificationTag)

	ids, err := env.engine.Queries().ListCredentials(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	// Minting bumps the recipient's badge counter.
	p, err := env.engine.Queries().GetUserProgress(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), p.BadgesEarned)
}

func TestEngine_MintCredential_EducatorOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	cmd := command.MintCredentialCommand{
		Issuer:     student,
		User:       student,
		CourseID:   42,
		SkillLevel: 4,
		Type:       credential.TypeCertificate,
	}
	_, err := env.engine.MintCredential(ctx, cmd)
	assert.ErrorIs(t, err, access.ErrNotEducator)

	// The owner role does not imply the educator role.
	cmd.Issuer = owner
	_, err = env.engine.MintCredential(ctx, cmd)
	assert.ErrorIs(t, err, access.ErrNotEducator)
}

func TestEngine_MintCredential_RevokedEducator(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)
	require.NoError(t, env.engine.RevokeEducator(ctx, owner, educator))

	_, err := env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer:     educator,
		User:       student,
		CourseID:   42,
		SkillLevel: 4,
		Type:       credential.TypeCertificate,
	})
	assert.ErrorIs(t, err, access.ErrNotEducator)
}

func TestEngine_VerifyCredential(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)

	res, err := env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer:     educator,
		User:       student,
		CourseID:   42,
		SkillLevel: 4,
		Type:       credential.TypeQuest,
	})
	require.NoError(t, err)

	ok, err := env.engine.Queries().VerifyCredential(ctx, res.CredentialID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Unknown ids verify to false without an error.
	ok, err = env.engine.Queries().VerifyCredential(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

func TestEngine_UpdateLeaderboard(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)

	_, err := env.engine.UpdateLeaderboard(ctx, command.UpdateLeaderboardCommand{
		Caller: educator, UserID: 7, NewScore: 10,
	})
	require.NoError(t, err)

	// Scores overwrite, they do not accumulate.
	_, err = env.engine.UpdateLeaderboard(ctx, command.UpdateLeaderboardCommand{
		Caller: educator, UserID: 7, NewScore: 5,
	})
	require.NoError(t, err)

	score, err := env.engine.Queries().GetScore(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), score)

	score, err = env.engine.Queries().GetScore(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), score, "unknown users score zero")
}

func TestEngine_UpdateLeaderboard_EducatorOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.engine.UpdateLeaderboard(ctx, command.UpdateLeaderboardCommand{
		Caller: student, UserID: 7, NewScore: 10,
	})
	assert.ErrorIs(t, err, access.ErrNotEducator)
}

// ══════════════════════════════════════════════════════════════════════════════
// PAUSE AND ADMINISTRATION
// ══════════════════════════════════════════════════════════════════════════════

func TestEngine_PauseBlocksMutations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.grantEducator(t)
	questID := env.createQuest(t, 500, 0)

	require.NoError(t, env.engine.Pause(ctx, owner))

	_, err := env.engine.CreateQuest(ctx, command.CreateQuestCommand{
		Caller: owner, Type: quest.TypeDaily, Difficulty: 3, XPReward: 100,
	})
	assert.ErrorIs(t, err, access.ErrPaused)

	_, err = env.engine.CompleteQuest(ctx, command.CompleteQuestCommand{
		Caller: student, QuestID: questID, AccuracyScore: 80,
	})
	assert.ErrorIs(t, err, access.ErrPaused)

	_, err = env.engine.MintCredential(ctx, command.MintCredentialCommand{
		Issuer: educator, User: student, CourseID: 1, SkillLevel: 3, Type: credential.TypeCertificate,
	})
	assert.ErrorIs(t, err, access.ErrPaused)

	_, err = env.engine.UpdateLeaderboard(ctx, command.UpdateLeaderboardCommand{
		Caller: educator, UserID: 7, NewScore: 10,
	})
	assert.ErrorIs(t, err, access.ErrPaused)

	// Reads stay available while paused.
	q, err := env.engine.Queries().GetQuest(ctx, questID)
	require.NoError(t, err)
	assert.Equal(t, uint32(500), q.XPReward)

	paused, err := env.engine.Queries().IsPaused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
}

func TestEngine_PauseIsIdempotentAndReversible(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Pause(ctx, owner))
	require.NoError(t, env.engine.Pause(ctx, owner))
	require.NoError(t, env.engine.Unpause(ctx, owner))
	require.NoError(t, env.engine.Unpause(ctx, owner))

	_, err := env.engine.CreateQuest(ctx, command.CreateQuestCommand{
		Caller: owner, Type: quest.TypeDaily, Difficulty: 3, XPReward: 100,
	})
	assert.NoError(t, err)
}

func TestEngine_PauseBlocksEducatorGrants(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.Pause(ctx, owner))

	// Grant changes are ordinary mutations: they fail while paused and the
	// grant set stays untouched.
	err := env.engine.GrantEducator(ctx, owner, educator)
	assert.ErrorIs(t, err, access.ErrPaused)

	granted, err := env.engine.Queries().IsEducator(ctx, educator)
	require.NoError(t, err)
	assert.False(t, granted, "grant set must not change while paused")

	assert.ErrorIs(t, env.engine.RevokeEducator(ctx, owner, educator), access.ErrPaused)

	// Pause and unpause themselves stay available so the owner can always
	// recover the system.
	require.NoError(t, env.engine.Unpause(ctx, owner))
	require.NoError(t, env.engine.GrantEducator(ctx, owner, educator))
	granted, err = env.engine.Queries().IsEducator(ctx, educator)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestEngine_AdminOpsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	assert.ErrorIs(t, env.engine.Pause(ctx, student), access.ErrNotOwner)
	assert.ErrorIs(t, env.engine.Unpause(ctx, student), access.ErrNotOwner)
	assert.ErrorIs(t, env.engine.GrantEducator(ctx, student, educator), access.ErrNotOwner)
	assert.ErrorIs(t, env.engine.RevokeEducator(ctx, student, educator), access.ErrNotOwner)
}

func TestEngine_GrantEducatorToOwnerIsNoOp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.NoError(t, env.engine.GrantEducator(ctx, owner, owner))

	granted, err := env.engine.Queries().IsEducator(ctx, owner)
	require.NoError(t, err)
	assert.False(t, granted)
}
