package progress

import (
	"context"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// Repository определяет контракт хранилища прогресса пользователей.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// GetOrCreate возвращает запись прогресса пользователя, создавая её
	// со значениями по умолчанию при первом обращении. Не возвращает
	// ошибку "не найдено".
	GetOrCreate(ctx context.Context, user shared.Address) (*Progress, error)

	// Save сохраняет запись прогресса.
	Save(ctx context.Context, p *Progress) error
}
