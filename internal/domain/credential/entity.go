// Package credential содержит доменную модель образовательных сертификатов
// (NFT-значков) академии ELRONOM: выпуск, индекс по владельцу, верификация.
package credential

import (
	"time"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// IssuingAuthority - фиксированное имя выпускающей организации.
const IssuingAuthority = "ELRONOM Academy"

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет вид образовательного сертификата.
type Type string

const (
	// TypeCertificate - сертификат о прохождении курса.
	TypeCertificate Type = "certificate"
	// TypeAchievement - достижение за особые заслуги.
	TypeAchievement Type = "achievement"
	// TypeQuest - значок за выполнение квестовой линии.
	TypeQuest Type = "quest"
)

// IsValid проверяет, что тип сертификата корректен.
func (t Type) IsValid() bool {
	switch t {
	case TypeCertificate, TypeAchievement, TypeQuest:
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

// SkillLevel представляет подтверждённый уровень навыка по шкале 1..5.
type SkillLevel uint8

// IsValid проверяет, что уровень навыка в допустимом диапазоне.
func (s SkillLevel) IsValid() bool {
	return s >= 1 && s <= 5
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: CREDENTIAL
// ══════════════════════════════════════════════════════════════════════════════

// Credential - невзаимозаменяемая запись о том, что пользователь прошёл
// курс на заданном уровне навыка. Принадлежит ровно одному адресу.
type Credential struct {
	// ID - уникальный идентификатор (монотонный счётчик, начинается с 1).
	ID uint64

	// Owner - адрес владельца сертификата.
	Owner shared.Address

	// CourseID - идентификатор курса.
	CourseID uint64

	// CompletionDate - время выпуска сертификата.
	CompletionDate time.Time

	// SkillLevel - подтверждённый уровень навыка (1..5).
	SkillLevel SkillLevel

	// IssuingAuthority - выпускающая организация (всегда IssuingAuthority).
	IssuingAuthority string

	// VerificationTag - детерминированный хеш, связывающий сертификат
	// с контекстом выпуска. Непустой у каждого существующего сертификата.
	VerificationTag []byte

	// Type - вид сертификата.
	Type Type
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidType - неизвестный тип сертификата.
	ErrInvalidType = shared.NewDomainError("credential", "Validate", shared.ErrInvalidInput, "unknown credential type")

	// ErrInvalidSkillLevel - уровень навыка вне диапазона 1..5.
	ErrInvalidSkillLevel = shared.NewDomainError("credential", "Validate", shared.ErrValueOutOfRange, "skill level must be between 1 and 5")

	// ErrInvalidOwner - пустой адрес владельца.
	ErrInvalidOwner = shared.NewDomainError("credential", "Validate", shared.ErrEmptyValue, "credential owner is required")

	// ErrEmptyVerificationTag - верификационный тег не может быть пустым.
	ErrEmptyVerificationTag = shared.NewDomainError("credential", "Validate", shared.ErrEmptyValue, "verification tag is required")

	// ErrNotFound - сертификат не найден.
	ErrNotFound = shared.NewDomainError("credential", "Get", shared.ErrNotFound, "credential not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewCredentialParams содержит параметры для выпуска сертификата.
type NewCredentialParams struct {
	ID              uint64
	Owner           shared.Address
	CourseID        uint64
	SkillLevel      SkillLevel
	Type            Type
	VerificationTag []byte
	IssuedAt        time.Time
}

// NewCredential создаёт сертификат с валидацией всех полей.
func NewCredential(params NewCredentialParams) (*Credential, error) {
	if params.Owner.IsZero() {
		return nil, ErrInvalidOwner
	}

	if !params.SkillLevel.IsValid() {
		return nil, ErrInvalidSkillLevel
	}

	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	if len(params.VerificationTag) == 0 {
		return nil, ErrEmptyVerificationTag
	}

	return &Credential{
		ID:               params.ID,
		Owner:            params.Owner,
		CourseID:         params.CourseID,
		CompletionDate:   params.IssuedAt,
		SkillLevel:       params.SkillLevel,
		IssuingAuthority: IssuingAuthority,
		VerificationTag:  params.VerificationTag,
		Type:             params.Type,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsVerifiable возвращает true, если сертификат несёт непустой
// верификационный тег.
func (c *Credential) IsVerifiable() bool {
	return len(c.VerificationTag) > 0
}
