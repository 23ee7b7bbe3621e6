// Package quest содержит доменную модель квестов академии ELRONOM.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package quest

import (
	"time"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет категорию квеста.
type Type string

const (
	// TypeDaily - ежедневный квест.
	TypeDaily Type = "daily"
	// TypeWeekly - еженедельный квест.
	TypeWeekly Type = "weekly"
	// TypeEpic - эпический квест (долгосрочный).
	TypeEpic Type = "epic"
)

// IsValid проверяет, что тип квеста корректен.
func (t Type) IsValid() bool {
	switch t {
	case TypeDaily, TypeWeekly, TypeEpic:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Difficulty представляет сложность квеста по шкале 1..5.
type Difficulty uint8

const (
	// MinDifficulty - минимальная сложность.
	MinDifficulty Difficulty = 1
	// MaxDifficulty - максимальная сложность.
	MaxDifficulty Difficulty = 5
)

// IsValid проверяет, что сложность в допустимом диапазоне.
func (d Difficulty) IsValid() bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}

// AccuracyScore представляет точность выполнения квеста в процентах (0..100).
type AccuracyScore uint8

// IsValid проверяет, что точность не превышает 100.
func (a AccuracyScore) IsValid() bool {
	return a <= 100
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: QUEST
// ══════════════════════════════════════════════════════════════════════════════

// Quest - учебное задание с наградой в XP и, опционально, в нативной валюте.
// После создания изменяемым остаётся только флаг Active.
type Quest struct {
	// ID - уникальный идентификатор (монотонный счётчик, начинается с 1).
	ID uint64

	// Type - категория квеста.
	Type Type

	// Difficulty - сложность по шкале 1..5.
	Difficulty Difficulty

	// XPReward - награда в очках опыта (строго положительная).
	XPReward uint32

	// RewardAmount - награда в нативной валюте платформы (может быть 0).
	RewardAmount uint64

	// Criteria - критерии выполнения (непрозрачный текст).
	Criteria string

	// Active - доступен ли квест для выполнения.
	Active bool

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidType - неизвестный тип квеста.
	ErrInvalidType = shared.NewDomainError("quest", "Validate", shared.ErrInvalidInput, "unknown quest type")

	// ErrInvalidDifficulty - сложность вне диапазона 1..5.
	ErrInvalidDifficulty = shared.NewDomainError("quest", "Validate", shared.ErrValueOutOfRange, "difficulty must be between 1 and 5")

	// ErrInvalidXPReward - награда XP должна быть положительной.
	ErrInvalidXPReward = shared.NewDomainError("quest", "Validate", shared.ErrValueOutOfRange, "xp reward must be positive")

	// ErrInvalidAccuracy - точность не может превышать 100.
	ErrInvalidAccuracy = shared.NewDomainError("quest", "Validate", shared.ErrValueOutOfRange, "accuracy score cannot exceed 100")

	// ErrNotFound - квест не найден.
	ErrNotFound = shared.NewDomainError("quest", "Get", shared.ErrNotFound, "quest not found")

	// ErrInactive - квест не активен.
	ErrInactive = shared.NewDomainError("quest", "Complete", shared.ErrInvalidState, "quest is not active")

	// ErrAlreadyCompleted - квест уже выполнен этим пользователем.
	ErrAlreadyCompleted = shared.NewDomainError("quest", "Complete", shared.ErrAlreadyCompleted, "quest already completed by caller")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewQuestParams содержит параметры для создания нового квеста.
type NewQuestParams struct {
	ID           uint64
	Type         Type
	Difficulty   Difficulty
	XPReward     uint32
	RewardAmount uint64
	Criteria     string
	CreatedAt    time.Time
}

// NewQuest создаёт новый квест с валидацией всех полей.
// Квест создаётся активным.
func NewQuest(params NewQuestParams) (*Quest, error) {
	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	if !params.Difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	if params.XPReward == 0 {
		return nil, ErrInvalidXPReward
	}

	return &Quest{
		ID:           params.ID,
		Type:         params.Type,
		Difficulty:   params.Difficulty,
		XPReward:     params.XPReward,
		RewardAmount: params.RewardAmount,
		Criteria:     params.Criteria,
		Active:       true,
		CreatedAt:    params.CreatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// CanBeCompleted проверяет, доступен ли квест для выполнения.
func (q *Quest) CanBeCompleted() bool {
	return q.Active
}

// HasNativeReward возвращает true, если за квест положена выплата
// в нативной валюте.
func (q *Quest) HasNativeReward() bool {
	return q.RewardAmount > 0
}
