package postgres

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/credential"
	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// CredentialRepository is the pgx-backed credential registry. The per-owner
// index is the owner_address column with an ordered covering index.
type CredentialRepository struct {
	conn *Connection
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(conn *Connection) *CredentialRepository {
	return &CredentialRepository{conn: conn}
}

// NextID implements credential.Repository.
func (r *CredentialRepository) NextID(ctx context.Context) (uint64, error) {
	query := `
		UPDATE engine_state
		SET credential_counter = credential_counter + 1
		WHERE singleton
		RETURNING credential_counter - 1
	`

	var id uint64
	if err := r.conn.QueryRow(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate credential id: %w", err)
	}
	return id, nil
}

// Save implements credential.Repository.
func (r *CredentialRepository) Save(ctx context.Context, c *credential.Credential) error {
	query := `
		INSERT INTO credentials (
			id, owner_address, course_id, completion_date, skill_level,
			issuing_authority, verification_tag, credential_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.conn.Exec(ctx, query,
		int64(c.ID),
		c.Owner.String(),
		int64(c.CourseID),
		c.CompletionDate,
		int16(c.SkillLevel),
		c.IssuingAuthority,
		c.VerificationTag,
		c.Type.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}

	return nil
}

// GetByID implements credential.Repository.
func (r *CredentialRepository) GetByID(ctx context.Context, id uint64) (*credential.Credential, error) {
	query := `
		SELECT id, owner_address, course_id, completion_date, skill_level,
		       issuing_authority, verification_tag, credential_type
		FROM credentials
		WHERE id = $1
	`

	var (
		c              credential.Credential
		owner          string
		skillLevel     int16
		credentialType string
	)
	err := r.conn.QueryRow(ctx, query, int64(id)).Scan(
		&c.ID,
		&owner,
		&c.CourseID,
		&c.CompletionDate,
		&skillLevel,
		&c.IssuingAuthority,
		&c.VerificationTag,
		&credentialType,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, credential.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	c.Owner = shared.Address(owner)
	c.SkillLevel = credential.SkillLevel(skillLevel)
	c.Type = credential.Type(credentialType)

	return &c, nil
}

// ListIDsByOwner implements credential.Repository. Ids are monotonic, so id
// order is issuance order.
func (r *CredentialRepository) ListIDsByOwner(ctx context.Context, owner shared.Address) ([]uint64, error) {
	query := `
		SELECT id FROM credentials
		WHERE owner_address = $1
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query, owner.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan credential id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
