// Package query contains read operations (CQRS - Queries).
// Queries never mutate state, never require authorization, and remain
// available while the ledger is paused. The one exception to purity is
// GetUserProgress, which may lazily materialize a default record.
package query

import (
	"context"
	"errors"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/leaderboard"
	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/quest"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// Queries bundles the read side of the ledger.
type Queries struct {
	quests      quest.Repository
	progresses  progress.Repository
	credentials credential.Repository
	scores      leaderboard.Repository
	auth        *access.Authorizer
}

// NewQueries creates the read-side service.
func NewQueries(
	quests quest.Repository,
	progresses progress.Repository,
	credentials credential.Repository,
	scores leaderboard.Repository,
	auth *access.Authorizer,
) *Queries {
	return &Queries{
		quests:      quests,
		progresses:  progresses,
		credentials: credentials,
		scores:      scores,
		auth:        auth,
	}
}

// GetQuest returns a quest by id. Fails with quest.ErrNotFound.
func (q *Queries) GetQuest(ctx context.Context, id uint64) (*quest.Quest, error) {
	return q.quests.GetByID(ctx, id)
}

// GetUserProgress returns the user's progress, materializing the default
// record on first access. Never fails for unknown users.
func (q *Queries) GetUserProgress(ctx context.Context, user shared.Address) (*progress.Progress, error) {
	return q.progresses.GetOrCreate(ctx, user)
}

// ListCredentials returns the ids of the user's credentials in issuance
// order. Empty for unknown users.
func (q *Queries) ListCredentials(ctx context.Context, user shared.Address) ([]uint64, error) {
	return q.credentials.ListIDsByOwner(ctx, user)
}

// GetCredential returns a credential by id. Fails with credential.ErrNotFound.
func (q *Queries) GetCredential(ctx context.Context, id uint64) (*credential.Credential, error) {
	return q.credentials.GetByID(ctx, id)
}

// VerifyCredential reports whether the credential exists and carries a
// non-empty verification tag. Unknown ids verify false, never an error.
func (q *Queries) VerifyCredential(ctx context.Context, id uint64) (bool, error) {
	c, err := q.credentials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return c.IsVerifiable(), nil
}

// GetScore returns the user's current score, 0 if absent.
func (q *Queries) GetScore(ctx context.Context, userID uint64) (uint32, error) {
	return q.scores.GetScore(ctx, userID)
}

// IsEducator reports whether the address holds an explicit educator grant.
// The owner is not implicitly an educator.
func (q *Queries) IsEducator(ctx context.Context, addr shared.Address) (bool, error) {
	return q.auth.IsEducator(ctx, addr)
}

// IsPaused reports the global pause flag.
func (q *Queries) IsPaused(ctx context.Context) (bool, error) {
	return q.auth.IsPaused(ctx)
}
