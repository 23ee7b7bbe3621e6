package quest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewQuestParams {
	return NewQuestParams{
		ID:           1,
		Type:         TypeDaily,
		Difficulty:   3,
		XPReward:     500,
		RewardAmount: 0,
		Criteria:     "solve five tasks",
		CreatedAt:    time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewQuest_Valid(t *testing.T) {
	params := validParams()

	q, err := NewQuest(params)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), q.ID)
	assert.Equal(t, TypeDaily, q.Type)
	assert.Equal(t, Difficulty(3), q.Difficulty)
	assert.Equal(t, uint32(500), q.XPReward)
	assert.True(t, q.Active, "new quests start active")
	assert.False(t, q.HasNativeReward())
}

func TestNewQuest_BoundaryDifficulty(t *testing.T) {
	params := validParams()
	params.Difficulty = MaxDifficulty
	params.XPReward = 1

	q, err := NewQuest(params)
	require.NoError(t, err)
	assert.Equal(t, MaxDifficulty, q.Difficulty)
	assert.Equal(t, uint32(1), q.XPReward)
}

func TestNewQuest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewQuestParams)
		wantErr error
	}{
		{
			name:    "unknown type",
			mutate:  func(p *NewQuestParams) { p.Type = "legendary" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "difficulty zero",
			mutate:  func(p *NewQuestParams) { p.Difficulty = 0 },
			wantErr: ErrInvalidDifficulty,
		},
		{
			name:    "difficulty above max",
			mutate:  func(p *NewQuestParams) { p.Difficulty = 6 },
			wantErr: ErrInvalidDifficulty,
		},
		{
			name:    "zero xp reward",
			mutate:  func(p *NewQuestParams) { p.XPReward = 0 },
			wantErr: ErrInvalidXPReward,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			q, err := NewQuest(params)
			assert.Nil(t, q)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestQuest_CanBeCompleted(t *testing.T) {
	q, err := NewQuest(validParams())
	require.NoError(t, err)

	assert.True(t, q.CanBeCompleted())

	q.Active = false
	assert.False(t, q.CanBeCompleted())
}

func TestAccuracyScore_IsValid(t *testing.T) {
	assert.True(t, AccuracyScore(0).IsValid())
	assert.True(t, AccuracyScore(100).IsValid())
	assert.False(t, AccuracyScore(101).IsValid())
}

func TestType_IsValid(t *testing.T) {
	assert.True(t, TypeDaily.IsValid())
	assert.True(t, TypeWeekly.IsValid())
	assert.True(t, TypeEpic.IsValid())
	assert.False(t, Type("").IsValid())
	assert.False(t, Type("monthly").IsValid())
}
