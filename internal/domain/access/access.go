// Package access содержит модель авторизации и глобальной блокировки:
// единственный владелец, явные гранты преподавателей и флаг паузы.
package access

import (
	"context"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotOwner - операция доступна только владельцу.
	ErrNotOwner = shared.NewDomainError("access", "Authorize", shared.ErrPermissionDenied, "caller is not the owner")

	// ErrNotEducator - операция доступна только преподавателю с грантом.
	ErrNotEducator = shared.NewDomainError("access", "Authorize", shared.ErrPermissionDenied, "caller is not an authorized educator")

	// ErrPaused - реестр приостановлен владельцем.
	ErrPaused = shared.NewDomainError("access", "EnsureActive", shared.ErrInvalidState, "ledger is paused")
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository хранит гранты преподавателей и флаг паузы.
// Реализации находятся в infrastructure/persistence.
type Repository interface {
	// IsEducator возвращает true, если адресу выдан грант преподавателя.
	IsEducator(ctx context.Context, addr shared.Address) (bool, error)

	// SetEducator выставляет или снимает грант преподавателя.
	// Снятие несуществующего гранта - не ошибка.
	SetEducator(ctx context.Context, addr shared.Address, granted bool) error

	// IsPaused возвращает текущее состояние флага паузы.
	IsPaused(ctx context.Context) (bool, error)

	// SetPaused выставляет флаг паузы.
	SetPaused(ctx context.Context, paused bool) error
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHORIZER
// ══════════════════════════════════════════════════════════════════════════════

// Authorizer инкапсулирует правила доступа: владелец фиксируется при
// инициализации и никогда не попадает в набор грантов.
type Authorizer struct {
	owner shared.Address
	repo  Repository
}

// NewAuthorizer создаёт Authorizer с фиксированным владельцем.
func NewAuthorizer(owner shared.Address, repo Repository) *Authorizer {
	return &Authorizer{owner: owner, repo: repo}
}

// Owner возвращает адрес владельца.
func (a *Authorizer) Owner() shared.Address {
	return a.owner
}

// RequireOwner возвращает ErrNotOwner, если вызывающий не владелец.
func (a *Authorizer) RequireOwner(caller shared.Address) error {
	if caller != a.owner {
		return ErrNotOwner
	}
	return nil
}

// RequireEducator возвращает ErrNotEducator, если вызывающему не выдан
// грант преподавателя. Владелец неявным грантом не обладает.
func (a *Authorizer) RequireEducator(ctx context.Context, caller shared.Address) error {
	granted, err := a.repo.IsEducator(ctx, caller)
	if err != nil {
		return err
	}
	if !granted {
		return ErrNotEducator
	}
	return nil
}

// EnsureActive возвращает ErrPaused, если реестр приостановлен.
// Каждая мутирующая операция обязана вызвать эту проверку первой.
func (a *Authorizer) EnsureActive(ctx context.Context) error {
	paused, err := a.repo.IsPaused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

// GrantEducator выдаёт грант преподавателя. Грант владельцу не
// сохраняется: владелец авторизуется отдельной веткой.
func (a *Authorizer) GrantEducator(ctx context.Context, addr shared.Address) error {
	if addr == a.owner {
		return nil
	}
	return a.repo.SetEducator(ctx, addr, true)
}

// RevokeEducator снимает грант преподавателя. Снятие несуществующего
// гранта - no-op.
func (a *Authorizer) RevokeEducator(ctx context.Context, addr shared.Address) error {
	return a.repo.SetEducator(ctx, addr, false)
}

// IsEducator возвращает true, если адресу выдан явный грант.
func (a *Authorizer) IsEducator(ctx context.Context, addr shared.Address) (bool, error) {
	return a.repo.IsEducator(ctx, addr)
}

// IsPaused возвращает текущее состояние флага паузы.
func (a *Authorizer) IsPaused(ctx context.Context) (bool, error) {
	return a.repo.IsPaused(ctx)
}

// SetPaused выставляет флаг паузы. Повторная установка того же
// значения - no-op.
func (a *Authorizer) SetPaused(ctx context.Context, paused bool) error {
	return a.repo.SetPaused(ctx, paused)
}
