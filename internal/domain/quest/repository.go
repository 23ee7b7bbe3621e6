package quest

import (
	"context"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над каталогом квестов.
type Repository interface {
	// NextID выделяет следующий монотонный идентификатор квеста.
	// Счётчик начинается с 1 и никогда не переиспользует значения.
	NextID(ctx context.Context) (uint64, error)

	// Save сохраняет квест.
	Save(ctx context.Context, q *Quest) error

	// GetByID возвращает квест по идентификатору.
	// Возвращает ErrNotFound, если квест не найден.
	GetByID(ctx context.Context, id uint64) (*Quest, error)
}

// CompletionRepository хранит флаги выполнения квестов по парам (user, quest).
// Переход false→true выполняется ровно один раз.
type CompletionRepository interface {
	// IsCompleted возвращает true, если пользователь уже выполнил квест.
	IsCompleted(ctx context.Context, user shared.Address, questID uint64) (bool, error)

	// MarkCompleted отмечает квест выполненным пользователем.
	MarkCompleted(ctx context.Context, user shared.Address, questID uint64) error
}
