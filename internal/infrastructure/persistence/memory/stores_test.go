package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

func TestQuestStore_NextIDStartsAtOne(t *testing.T) {
	ctx := context.Background()
	store := NewQuestStore()

	id1, err := store.NextID(ctx)
	require.NoError(t, err)
	id2, err := store.NextID(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)
}

func TestQuestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewQuestStore()

	q, err := quest.NewQuest(quest.NewQuestParams{
		ID:         1,
		Type:       quest.TypeWeekly,
		Difficulty: 2,
		XPReward:   300,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, q))

	got, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, q.Type, got.Type)
	assert.Equal(t, q.XPReward, got.XPReward)

	// Returned quest is a copy; mutating it must not touch the store.
	got.Active = false
	fresh, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fresh.Active)

	_, err = store.GetByID(ctx, 99)
	assert.ErrorIs(t, err, quest.ErrNotFound)
}

func TestQuestStore_Completions(t *testing.T) {
	ctx := context.Background()
	store := NewQuestStore()

	done, err := store.IsCompleted(ctx, "0xuser", 1)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, store.MarkCompleted(ctx, "0xuser", 1))

	done, err = store.IsCompleted(ctx, "0xuser", 1)
	require.NoError(t, err)
	assert.True(t, done)

	// Completion is scoped to (user, quest).
	done, err = store.IsCompleted(ctx, "0xother", 1)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestProgressStore_LazyDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	p, err := store.GetOrCreate(ctx, "0xnewcomer")
	require.NoError(t, err)

	assert.Equal(t, uint32(0), p.TotalXP)
	assert.Equal(t, uint8(1), p.Level)
	assert.Equal(t, uint32(0), p.CompletedQuests)

	// Mutations on the returned copy are invisible until Save.
	p.TotalXP = 500
	again, err := store.GetOrCreate(ctx, "0xnewcomer")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), again.TotalXP)

	require.NoError(t, store.Save(ctx, p))
	saved, err := store.GetOrCreate(ctx, "0xnewcomer")
	require.NoError(t, err)
	assert.Equal(t, uint32(500), saved.TotalXP)
}

func TestCredentialStore_OwnerIndex(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore()

	issue := func(id uint64, owner string) {
		c, err := credential.NewCredential(credential.NewCredentialParams{
			ID:              id,
			Owner:           shared.Address(owner),
			CourseID:        7,
			SkillLevel:      3,
			Type:            credential.TypeAchievement,
			VerificationTag: []byte{1, 2, 3},
			IssuedAt:        time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, c))
	}

	issue(1, "0xalice")
	issue(2, "0xbob")
	issue(3, "0xalice")

	ids, err := store.ListIDsByOwner(ctx, "0xalice")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)

	ids, err = store.ListIDsByOwner(ctx, "0xbob")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids)

	ids, err = store.ListIDsByOwner(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Re-saving the same id must not duplicate the index entry.
	issue(1, "0xalice")
	ids, err = store.ListIDsByOwner(ctx, "0xalice")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)
}

func TestLeaderboardStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewLeaderboardStore()

	score, err := store.GetScore(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), score, "unknown users score zero")

	require.NoError(t, store.SetScore(ctx, leaderboard.Entry{UserID: 5, Score: 10}))
	require.NoError(t, store.SetScore(ctx, leaderboard.Entry{UserID: 5, Score: 3}))

	score, err = store.GetScore(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), score, "scores overwrite, they do not accumulate")
}

func TestAccessStore(t *testing.T) {
	ctx := context.Background()
	store := NewAccessStore()

	granted, err := store.IsEducator(ctx, "0xeducator")
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, store.SetEducator(ctx, "0xeducator", true))
	granted, err = store.IsEducator(ctx, "0xeducator")
	require.NoError(t, err)
	assert.True(t, granted)

	require.NoError(t, store.SetEducator(ctx, "0xeducator", false))
	granted, err = store.IsEducator(ctx, "0xeducator")
	require.NoError(t, err)
	assert.False(t, granted)

	paused, err := store.IsPaused(ctx)
	require.NoError(t, err)
	assert.False(t, paused)

	require.NoError(t, store.SetPaused(ctx, true))
	paused, err = store.IsPaused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
}
