package command

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/access"
	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/progress"
	"github.com/elronom/academy-ledger/internal/domain/shared"
	"github.com/elronom/academy-ledger/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MINT CREDENTIAL COMMAND
// Precondition order: paused, skill-level range, educator grant. The id
// allocation, the credential insert, and the badge-count update commit as
// one unit of work.
// ══════════════════════════════════════════════════════════════════════════════

// MintCredentialCommand contains the data to issue a credential.
type MintCredentialCommand struct {
	// Issuer is the invoking identity. Must hold an educator grant.
	Issuer shared.Address

	// User is the credential recipient.
	User shared.Address

	// CourseID identifies the completed course.
	CourseID uint64

	// SkillLevel is the attested skill level (1..5).
	SkillLevel credential.SkillLevel

	// Type is the credential kind.
	Type credential.Type

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command ranges.
func (c MintCredentialCommand) Validate() error {
	if !c.SkillLevel.IsValid() {
		return credential.ErrInvalidSkillLevel
	}
	if c.User.IsZero() {
		return credential.ErrInvalidOwner
	}
	if !c.Type.IsValid() {
		return credential.ErrInvalidType
	}
	return nil
}

// MintCredentialResult contains the result of issuing a credential.
type MintCredentialResult struct {
	// CredentialID is the allocated monotonic id.
	CredentialID uint64

	// VerificationTag is the derived authenticity hash.
	VerificationTag []byte
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// MintCredentialHandler handles the MintCredentialCommand.
type MintCredentialHandler struct {
	credentials credential.Repository
	progresses  progress.Repository
	hasher      credential.TagHasher
	auth        *access.Authorizer
	publisher   shared.EventPublisher
	tx          shared.TxRunner
	clock       shared.Clock
	log         *logger.Logger
}

// NewMintCredentialHandler creates a new MintCredentialHandler.
func NewMintCredentialHandler(
	credentials credential.Repository,
	progresses progress.Repository,
	hasher credential.TagHasher,
	auth *access.Authorizer,
	publisher shared.EventPublisher,
	tx shared.TxRunner,
	clock shared.Clock,
	log *logger.Logger,
) *MintCredentialHandler {
	return &MintCredentialHandler{
		credentials: credentials,
		progresses:  progresses,
		hasher:      hasher,
		auth:        auth,
		publisher:   publisher,
		tx:          tx,
		clock:       clock,
		log:         log.With(logger.Component("command")),
	}
}

// Handle executes the mint credential command.
func (h *MintCredentialHandler) Handle(ctx context.Context, cmd MintCredentialCommand) (*MintCredentialResult, error) {
	if err := h.auth.EnsureActive(ctx); err != nil {
		return nil, err
	}

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.auth.RequireEducator(ctx, cmd.Issuer); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	var c *credential.Credential
	err := h.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := h.credentials.NextID(ctx)
		if err != nil {
			return fmt.Errorf("mint_credential: allocate id: %w", err)
		}

		tag := h.hasher.Tag(cmd.User, cmd.CourseID, now)

		c, err = credential.NewCredential(credential.NewCredentialParams{
			ID:              id,
			Owner:           cmd.User,
			CourseID:        cmd.CourseID,
			SkillLevel:      cmd.SkillLevel,
			Type:            cmd.Type,
			VerificationTag: tag,
			IssuedAt:        now,
		})
		if err != nil {
			return err
		}

		if err := h.credentials.Save(ctx, c); err != nil {
			return fmt.Errorf("mint_credential: save credential: %w", err)
		}

		p, err := h.progresses.GetOrCreate(ctx, cmd.User)
		if err != nil {
			return fmt.Errorf("mint_credential: load progress: %w", err)
		}
		p.IncrementBadges()
		p.TouchActivity(now)
		if err := h.progresses.Save(ctx, p); err != nil {
			return fmt.Errorf("mint_credential: save progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := shared.NewCredentialMintedEvent(cmd.User, c.ID, c.CourseID, c.Type.String(), now)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.publisher.Publish(event)

	h.log.Info("credential minted",
		logger.UserAddr(cmd.User.String()),
		logger.CredentialID(c.ID),
		logger.CourseID(c.CourseID),
	)

	return &MintCredentialResult{CredentialID: c.ID, VerificationTag: c.VerificationTag}, nil
}
