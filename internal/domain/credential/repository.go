package credential

import (
	"context"
	"time"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над реестром сертификатов и индексом
// сертификатов по владельцу.
type Repository interface {
	// NextID выделяет следующий монотонный идентификатор сертификата.
	// Счётчик начинается с 1.
	NextID(ctx context.Context) (uint64, error)

	// Save сохраняет сертификат и добавляет его идентификатор
	// в индекс владельца.
	Save(ctx context.Context, c *Credential) error

	// GetByID возвращает сертификат по идентификатору.
	// Возвращает ErrNotFound, если сертификат не найден.
	GetByID(ctx context.Context, id uint64) (*Credential, error)

	// ListIDsByOwner возвращает идентификаторы сертификатов пользователя
	// в порядке выпуска. Для неизвестного адреса - пустой срез, не ошибка.
	ListIDsByOwner(ctx context.Context, owner shared.Address) ([]uint64, error)
}

// TagHasher вычисляет детерминированный верификационный тег сертификата
// из контекста выпуска. Реализация находится в infrastructure/hashing.
type TagHasher interface {
	// Tag возвращает непустой хеш от (владелец, курс, время выпуска).
	Tag(owner shared.Address, courseID uint64, issuedAt time.Time) []byte
}
