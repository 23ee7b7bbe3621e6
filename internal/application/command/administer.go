package command

import (
	"context"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMINISTRATION COMMANDS
// Owner-only operations: pause guard and educator grants. Pause and
// unpause are the only mutations exempt from the pause guard, otherwise
// unpause would be unreachable. Grant changes are ordinary mutations and
// fail while paused like everything else.
// ══════════════════════════════════════════════════════════════════════════════

// SetPausedCommand flips the global pause flag.
type SetPausedCommand struct {
	// Caller is the invoking identity. Must be the owner.
	Caller shared.Address

	// Paused is the desired state.
	Paused bool
}

// SetEducatorCommand grants or revokes an educator grant.
type SetEducatorCommand struct {
	// Caller is the invoking identity. Must be the owner.
	Caller shared.Address

	// Educator is the address whose grant changes.
	Educator shared.Address

	// Granted is the desired grant state.
	Granted bool
}

// AdminHandler handles administration commands.
type AdminHandler struct {
	auth *access.Authorizer
	log  *logger.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(auth *access.Authorizer, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		auth: auth,
		log:  log.With(logger.Component("command")),
	}
}

// HandleSetPaused executes a pause or unpause. Setting the current state
// again is a no-op.
func (h *AdminHandler) HandleSetPaused(ctx context.Context, cmd SetPausedCommand) error {
	if err := h.auth.RequireOwner(cmd.Caller); err != nil {
		return err
	}

	if err := h.auth.SetPaused(ctx, cmd.Paused); err != nil {
		return err
	}

	h.log.Info("pause flag changed", logger.Bool("paused", cmd.Paused))
	return nil
}

// HandleSetEducator executes a grant or revoke. Revoking a non-granted
// address is a no-op; the owner is never stored in the grant set.
func (h *AdminHandler) HandleSetEducator(ctx context.Context, cmd SetEducatorCommand) error {
	if err := h.auth.EnsureActive(ctx); err != nil {
		return err
	}

	if err := h.auth.RequireOwner(cmd.Caller); err != nil {
		return err
	}

	var err error
	if cmd.Granted {
		err = h.auth.GrantEducator(ctx, cmd.Educator)
	} else {
		err = h.auth.RevokeEducator(ctx, cmd.Educator)
	}
	if err != nil {
		return err
	}

	h.log.Info("educator grant changed",
		logger.UserAddr(cmd.Educator.String()),
		logger.Bool("granted", cmd.Granted),
	)
	return nil
}
