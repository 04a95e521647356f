package postgres

import (
	"context"
	"errors"
	"fmt"

	"routeshare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ExternalAccountsStore struct {
	pool *pgxpool.Pool
}

func NewExternalAccountsStore(pool *pgxpool.Pool) *ExternalAccountsStore {
	return &ExternalAccountsStore{pool: pool}
}

func (s *ExternalAccountsStore) GetByProvider(ctx context.Context, provider, providerID string) (domain.ExternalAccount, error) {
	const q = `
		SELECT id, user_id, provider, provider_id, email, created_at
		FROM external_accounts
		WHERE provider = $1 AND provider_id = $2
	`

	var (
		acc        domain.ExternalAccount
		idUUID     pgtype.UUID
		userIDUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, provider, providerID).Scan(
		&idUUID,
		&userIDUUID,
		&acc.Provider,
		&acc.ProviderID,
		&acc.Email,
		&acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExternalAccount{}, domain.ErrNotFound
		}
		return domain.ExternalAccount{}, fmt.Errorf("get external account: %w", err)
	}

	acc.ID = uuidOrEmpty(idUUID)
	acc.UserID = uuidOrEmpty(userIDUUID)
	return acc, nil
}

func (s *ExternalAccountsStore) Link(ctx context.Context, userID, provider, providerID, email string) error {
	const q = `
		INSERT INTO external_accounts (user_id, provider, provider_id, email)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.pool.Exec(ctx, q, userID, provider, providerID, email)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "external_accounts_provider_uq" {
			// Concurrent first sign-in with the same provider identity;
			// the existing link wins.
			return nil
		}
		return fmt.Errorf("link external account: %w", err)
	}
	return nil
}
