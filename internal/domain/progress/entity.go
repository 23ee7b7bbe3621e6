// Package progress содержит доменную модель прогресса пользователя:
// очки опыта, уровень, счётчики выполненных квестов и значков.
package progress

import (
	"math"
	"time"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL CALCULATION
// ══════════════════════════════════════════════════════════════════════════════

// MaxLevel - максимальный уровень пользователя.
const MaxLevel = 100

// CalculateLevel вычисляет уровень на основе суммарного XP.
// Формула: level = floor(sqrt(total_xp / 100)), с потолком 100.
// Деление целочисленное и выполняется до извлечения корня.
func CalculateLevel(totalXP uint32) uint8 {
	level := uint64(math.Sqrt(float64(totalXP / 100)))
	if level > MaxLevel {
		return MaxLevel
	}
	return uint8(level)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// Progress представляет накопленный прогресс одного пользователя.
// Запись создаётся лениво при первом обращении.
type Progress struct {
	// User - идентификатор владельца записи.
	User shared.Address

	// TotalXP - суммарные очки опыта (монотонно неубывающие).
	TotalXP uint32

	// Level - текущий уровень, производный от TotalXP.
	Level uint8

	// CompletedQuests - количество выполненных квестов (монотонно неубывающее).
	CompletedQuests uint32

	// StreakDays - серия дней активности. Зарезервировано: поле хранится
	// и отдаётся наружу, но ни одна операция его не увеличивает.
	StreakDays uint16

	// BadgesEarned - количество полученных значков (монотонно неубывающее).
	BadgesEarned uint16

	// PredictionAccuracy - скользящая средняя точность (0..100).
	PredictionAccuracy uint8

	// LastActivity - время последней активности.
	LastActivity time.Time
}

// NewProgress создаёт запись прогресса со значениями по умолчанию.
// Новый пользователь начинается с уровня 1 при нулевом XP - намеренное
// исключение из формулы уровня.
func NewProgress(user shared.Address) *Progress {
	return &Progress{
		User:               user,
		TotalXP:            0,
		Level:              1,
		CompletedQuests:    0,
		StreakDays:         0,
		BadgesEarned:       0,
		PredictionAccuracy: 0,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// CreditXP начисляет XP и пересчитывает уровень.
// Возвращает true и новый уровень, если уровень вырос.
func (p *Progress) CreditXP(amount uint32) (leveledUp bool, newLevel uint8) {
	p.TotalXP += amount
	newLevel = CalculateLevel(p.TotalXP)
	if newLevel > p.Level {
		p.Level = newLevel
		return true, newLevel
	}
	return false, p.Level
}

// IncrementCompletedQuests увеличивает счётчик выполненных квестов.
func (p *Progress) IncrementCompletedQuests() {
	p.CompletedQuests++
}

// IncrementBadges увеличивает счётчик полученных значков.
func (p *Progress) IncrementBadges() {
	p.BadgesEarned++
}

// FoldAccuracy вписывает новую оценку точности в скользящую среднюю:
// new = (old + score) / 2, целочисленное деление. Нулевая оценка
// среднюю не меняет. Формула смещена в пользу последней оценки;
// сохранена как есть.
func (p *Progress) FoldAccuracy(score uint8) {
	if score == 0 {
		return
	}
	p.PredictionAccuracy = (p.PredictionAccuracy + score) / 2
}

// TouchActivity обновляет время последней активности.
func (p *Progress) TouchActivity(at time.Time) {
	p.LastActivity = at
}
