package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name    string
		totalXP uint32
		want    uint8
	}{
		{"zero xp", 0, 0},
		{"below first threshold", 99, 0},
		{"first threshold", 100, 1},
		{"between thresholds", 399, 1},
		{"level two", 400, 2},
		{"level three", 900, 3},
		{"level ten", 10000, 10},
		{"integer division before sqrt", 10099, 10},
		{"level hundred", 1000000, 100},
		{"capped at hundred", 4000000000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateLevel(tt.totalXP))
		})
	}
}

func TestNewProgress_Defaults(t *testing.T) {
	user := shared.Address("0xabc")

	p := NewProgress(user)

	assert.Equal(t, user, p.User)
	assert.Equal(t, uint32(0), p.TotalXP)
	// Fresh accounts start at level 1 even though 0 XP maps to level 0.
	assert.Equal(t, uint8(1), p.Level)
	assert.Equal(t, uint32(0), p.CompletedQuests)
	assert.Equal(t, uint16(0), p.BadgesEarned)
	assert.Equal(t, uint8(0), p.PredictionAccuracy)
	assert.True(t, p.LastActivity.IsZero())
}

func TestProgress_CreditXP(t *testing.T) {
	p := NewProgress("0xabc")

	leveled, level := p.CreditXP(250)
	assert.False(t, leveled, "level 1 default already covers sqrt(250/100)=1")
	assert.Equal(t, uint8(1), level)
	assert.Equal(t, uint32(250), p.TotalXP)

	leveled, level = p.CreditXP(650)
	assert.True(t, leveled)
	assert.Equal(t, uint8(3), level)
	assert.Equal(t, uint8(3), p.Level)

	// XP accumulates even when the level does not move.
	leveled, level = p.CreditXP(1)
	assert.False(t, leveled)
	assert.Equal(t, uint8(3), level)
	assert.Equal(t, uint32(901), p.TotalXP)
}

func TestProgress_FoldAccuracy(t *testing.T) {
	p := NewProgress("0xabc")

	p.FoldAccuracy(80)
	assert.Equal(t, uint8(40), p.PredictionAccuracy)

	p.FoldAccuracy(90)
	assert.Equal(t, uint8(65), p.PredictionAccuracy)

	// Zero scores leave the running average untouched.
	p.FoldAccuracy(0)
	assert.Equal(t, uint8(65), p.PredictionAccuracy)

	// Integer division: (65 + 100) / 2 = 82.
	p.FoldAccuracy(100)
	assert.Equal(t, uint8(82), p.PredictionAccuracy)
}

func TestProgress_Counters(t *testing.T) {
	p := NewProgress("0xabc")

	p.IncrementCompletedQuests()
	p.IncrementCompletedQuests()
	p.IncrementBadges()

	assert.Equal(t, uint32(2), p.CompletedQuests)
	assert.Equal(t, uint16(1), p.BadgesEarned)
	assert.Equal(t, uint16(0), p.StreakDays)
}

func TestProgress_TouchActivity(t *testing.T) {
	p := NewProgress("0xabc")
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	p.TouchActivity(at)

	assert.Equal(t, at, p.LastActivity)
}
