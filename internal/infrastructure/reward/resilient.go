package reward

import (
	"context"

	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/circuitbreaker"
	"github.com/elronom/academy-ledger/pkg/logger"
	"github.com/elronom/academy-ledger/pkg/retry"
)

// ResilientDisburser decorates a Disburser with retries and a circuit
// breaker. Exhausted retries surface as ErrDisbursementFailed so handlers
// can abort the invocation before any store write.
type ResilientDisburser struct {
	inner   Disburser
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewResilientDisburser wraps inner with the reward-gateway retry and
// circuit breaker presets.
func NewResilientDisburser(inner Disburser, log *logger.Logger) *ResilientDisburser {
	l := log.With(logger.Component("reward"))
	return &ResilientDisburser{
		inner:   inner,
		retrier: retry.RewardGatewayRetrier(),
		breaker: circuitbreaker.RewardGatewayBreaker(func(name string, from, to circuitbreaker.State) {
			l.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
		log: l,
	}
}

// Disburse implements Disburser.
func (d *ResilientDisburser) Disburse(ctx context.Context, to shared.Address, amount uint64) error {
	err := d.breaker.Execute(ctx, func(ctx context.Context) error {
		return d.retrier.Do(ctx, func(ctx context.Context) error {
			if err := d.inner.Disburse(ctx, to, amount); err != nil {
				return retry.Retryable(err)
			}
			return nil
		})
	})
	if err != nil {
		d.log.Error("disbursement failed",
			logger.UserAddr(to.String()),
			logger.RewardAmount(amount),
			logger.Err(err),
		)
		return shared.WrapError("reward", "Disburse", shared.ErrExternalService, "reward disbursement failed", err)
	}
	return nil
}
