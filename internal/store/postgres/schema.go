package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the server needs if they do not exist.
// Statements are idempotent so a restart against a provisioned database is
// a no-op. Constraint names are referenced by the stores when remapping
// unique violations, so they must not change.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			email         text NOT NULL,
			name          text NOT NULL,
			password_hash text,
			created_at    timestamptz NOT NULL DEFAULT now(),
			CONSTRAINT users_email_uq UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS external_accounts (
			id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id     uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			provider    text NOT NULL,
			provider_id text NOT NULL,
			email       text NOT NULL DEFAULT '',
			created_at  timestamptz NOT NULL DEFAULT now(),
			CONSTRAINT external_accounts_provider_uq UNIQUE (provider, provider_id)
		)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       text NOT NULL,
			distance_m integer NOT NULL CHECK (distance_m >= 0),
			duration_s integer NOT NULL CHECK (duration_s >= 0),
			path       jsonb NOT NULL,
			visibility text NOT NULL DEFAULT 'private'
				CHECK (visibility IN ('private', 'friends', 'public')),
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS routes_user_id_idx ON routes (user_id)`,
		`CREATE INDEX IF NOT EXISTS routes_visibility_idx ON routes (visibility, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			from_user_id uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			to_user_id   uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at   timestamptz NOT NULL DEFAULT now(),
			CONSTRAINT friend_requests_pair_uq UNIQUE (from_user_id, to_user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS friend_requests_to_user_idx ON friend_requests (to_user_id)`,
		`CREATE TABLE IF NOT EXISTS friends (
			user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			friend_id  uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at timestamptz NOT NULL DEFAULT now(),
			CONSTRAINT friends_pkey PRIMARY KEY (user_id, friend_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
