package postgres

import (
	"context"
	"fmt"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

// AccessRepository is the pgx-backed authorization state: educator grants
// and the pause flag on the singleton engine_state row.
type AccessRepository struct {
	conn *Connection
}

// NewAccessRepository creates a new AccessRepository.
func NewAccessRepository(conn *Connection) *AccessRepository {
	return &AccessRepository{conn: conn}
}

// IsEducator implements access.Repository.
func (r *AccessRepository) IsEducator(ctx context.Context, addr shared.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM educator_grants WHERE address = $1)`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, addr.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check educator grant: %w", err)
	}
	return exists, nil
}

// SetEducator implements access.Repository.
func (r *AccessRepository) SetEducator(ctx context.Context, addr shared.Address, granted bool) error {
	var query string
	if granted {
		query = `INSERT INTO educator_grants (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`
	} else {
		query = `DELETE FROM educator_grants WHERE address = $1`
	}

	if _, err := r.conn.Exec(ctx, query, addr.String()); err != nil {
		return fmt.Errorf("failed to set educator grant: %w", err)
	}
	return nil
}

// IsPaused implements access.Repository.
func (r *AccessRepository) IsPaused(ctx context.Context) (bool, error) {
	query := `SELECT paused FROM engine_state WHERE singleton`

	var paused bool
	if err := r.conn.QueryRow(ctx, query).Scan(&paused); err != nil {
		return false, fmt.Errorf("failed to read pause flag: %w", err)
	}
	return paused, nil
}

// SetPaused implements access.Repository.
func (r *AccessRepository) SetPaused(ctx context.Context, paused bool) error {
	query := `UPDATE engine_state SET paused = $1 WHERE singleton`

	if _, err := r.conn.Exec(ctx, query, paused); err != nil {
		return fmt.Errorf("failed to set pause flag: %w", err)
	}
	return nil
}
