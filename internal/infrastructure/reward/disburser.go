// Package reward implements the native-currency reward disbursement
// collaborator. The engine requests a disbursement before committing a quest
// completion, so a gateway failure aborts the whole invocation.
package reward

import (
	"context"
	"sync"

	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// Disburser transfers native-currency rewards to users.
type Disburser interface {
	// Disburse transfers amount to the given address.
	Disburse(ctx context.Context, to shared.Address, amount uint64) error
}

// ErrDisbursementFailed wraps gateway failures in the shared error model.
var ErrDisbursementFailed = shared.NewDomainError("reward", "Disburse", shared.ErrExternalService, "reward disbursement failed")

// Transfer is one recorded disbursement.
type Transfer struct {
	To     shared.Address
	Amount uint64
}

// LedgerDisburser records transfers in memory. It stands in for the platform
// payment rail in single-process deployments and in tests.
type LedgerDisburser struct {
	mu        sync.Mutex
	transfers []Transfer
	log       *logger.Logger
}

// NewLedgerDisburser creates a LedgerDisburser.
func NewLedgerDisburser(log *logger.Logger) *LedgerDisburser {
	return &LedgerDisburser{
		log: log.With(logger.Component("reward")),
	}
}

// Disburse implements Disburser.
func (d *LedgerDisburser) Disburse(ctx context.Context, to shared.Address, amount uint64) error {
	d.mu.Lock()
	d.transfers = append(d.transfers, Transfer{To: to, Amount: amount})
	d.mu.Unlock()

	d.log.Info("reward disbursed",
		logger.UserAddr(to.String()),
		logger.RewardAmount(amount),
	)
	return nil
}

// Transfers returns a copy of all recorded transfers.
func (d *LedgerDisburser) Transfers() []Transfer {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Transfer, len(d.transfers))
	copy(out, d.transfers)
	return out
}
