package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: LEDGER SCHEMA
// The CHECK constraints mirror the domain invariants so a bug in the engine
// cannot persist out-of-range state.
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create ledger tables
-- Version: 001

CREATE TABLE IF NOT EXISTS quests (
    id BIGINT PRIMARY KEY,
    quest_type VARCHAR(20) NOT NULL,
    difficulty SMALLINT NOT NULL,
    xp_reward BIGINT NOT NULL,
    reward_amount NUMERIC(20,0) NOT NULL DEFAULT 0,
    criteria TEXT NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_quest_type CHECK (quest_type IN ('daily', 'weekly', 'epic')),
    CONSTRAINT valid_difficulty CHECK (difficulty BETWEEN 1 AND 5),
    CONSTRAINT valid_xp_reward CHECK (xp_reward > 0),
    CONSTRAINT valid_reward_amount CHECK (reward_amount >= 0)
);

-- Write-once completion flags per (user, quest)
CREATE TABLE IF NOT EXISTS quest_completions (
    user_address TEXT NOT NULL,
    quest_id BIGINT NOT NULL REFERENCES quests(id),
    completed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (user_address, quest_id)
);

CREATE TABLE IF NOT EXISTS user_progress (
    user_address TEXT PRIMARY KEY,
    total_xp BIGINT NOT NULL DEFAULT 0,
    level SMALLINT NOT NULL DEFAULT 1,
    completed_quests BIGINT NOT NULL DEFAULT 0,
    streak_days INTEGER NOT NULL DEFAULT 0,
    badges_earned INTEGER NOT NULL DEFAULT 0,
    prediction_accuracy SMALLINT NOT NULL DEFAULT 0,
    last_activity TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_level CHECK (level BETWEEN 0 AND 100),
    CONSTRAINT valid_accuracy CHECK (prediction_accuracy BETWEEN 0 AND 100),
    CONSTRAINT valid_total_xp CHECK (total_xp >= 0)
);

CREATE TABLE IF NOT EXISTS credentials (
    id BIGINT PRIMARY KEY,
    owner_address TEXT NOT NULL,
    course_id BIGINT NOT NULL,
    completion_date TIMESTAMP WITH TIME ZONE NOT NULL,
    skill_level SMALLINT NOT NULL,
    issuing_authority TEXT NOT NULL,
    verification_tag BYTEA NOT NULL,
    credential_type VARCHAR(20) NOT NULL,

    CONSTRAINT valid_skill_level CHECK (skill_level BETWEEN 1 AND 5),
    CONSTRAINT valid_credential_type CHECK (credential_type IN ('certificate', 'achievement', 'quest')),
    CONSTRAINT non_empty_tag CHECK (octet_length(verification_tag) > 0)
);

CREATE INDEX IF NOT EXISTS idx_credentials_owner ON credentials(owner_address, id);

CREATE TABLE IF NOT EXISTS leaderboard_scores (
    user_id BIGINT PRIMARY KEY,
    score BIGINT NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_score CHECK (score >= 0)
);

CREATE TABLE IF NOT EXISTS educator_grants (
    address TEXT PRIMARY KEY,
    granted_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Single-row engine state: id counters and the pause flag.
-- Counters start at 1, paused starts false.
CREATE TABLE IF NOT EXISTS engine_state (
    singleton BOOLEAN PRIMARY KEY DEFAULT TRUE,
    quest_counter BIGINT NOT NULL DEFAULT 1,
    credential_counter BIGINT NOT NULL DEFAULT 1,
    paused BOOLEAN NOT NULL DEFAULT FALSE,

    CONSTRAINT singleton_row CHECK (singleton)
);

INSERT INTO engine_state (singleton) VALUES (TRUE)
ON CONFLICT (singleton) DO NOTHING;
`

const migration001Down = `
DROP TABLE IF EXISTS engine_state;
DROP TABLE IF EXISTS educator_grants;
DROP TABLE IF EXISTS leaderboard_scores;
DROP INDEX IF EXISTS idx_credentials_owner;
DROP TABLE IF EXISTS credentials;
DROP TABLE IF EXISTS user_progress;
DROP TABLE IF EXISTS quest_completions;
DROP TABLE IF EXISTS quests;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a database migration.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_ledger_tables",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}

// Migrator handles database migrations.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the migration tracking table if it doesn't exist.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns all applied migration versions.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time

		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}

		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}

			insertQuery := fmt.Sprintf(
				"INSERT INTO %s (version, name) VALUES ($1, $2)",
				m.tableName,
			)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}
