// Package leaderboard содержит доменную модель таблицы очков:
// по одному текущему значению на пользователя, без ранжирования.
package leaderboard

import (
	"context"
	"time"
)

// Entry представляет текущий счёт одного пользователя.
// Счёт перезаписывается целиком, монотонность не гарантируется.
type Entry struct {
	// UserID - числовой идентификатор пользователя в таблице.
	UserID uint64

	// Score - текущий счёт.
	Score uint32

	// UpdatedAt - время последней перезаписи.
	UpdatedAt time.Time
}

// Repository определяет контракт хранилища счётов.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// GetScore возвращает текущий счёт пользователя.
	// Для неизвестного пользователя возвращает 0, не ошибку.
	GetScore(ctx context.Context, userID uint64) (uint32, error)

	// SetScore безусловно перезаписывает счёт пользователя.
	SetScore(ctx context.Context, entry Entry) error
}
