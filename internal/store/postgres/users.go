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

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

// CreateUser persists a new user. passwordHash may be empty for accounts
// created through an external identity provider. The users_email_uq
// constraint is the race-closing authority behind the service's pre-check.
func (s *UsersStore) CreateUser(ctx context.Context, email, name, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, created_at
	`

	var (
		u      domain.User
		idUUID pgtype.UUID
	)
	var hashArg any
	if passwordHash != "" {
		hashArg = passwordHash
	}
	err := s.pool.QueryRow(ctx, q, email, name, hashArg).Scan(
		&idUUID,
		&u.Email,
		&u.Name,
		&u.CreatedAt,
	)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "users_email_uq" {
			return domain.User{}, domain.ErrEmailExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `
		SELECT id, email, name, created_at
		FROM users
		WHERE id = $1
	`

	var (
		u      domain.User
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(&idUUID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	return u, nil
}

func (s *UsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	const q = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`

	var (
		u        domain.UserWithPassword
		idUUID   pgtype.UUID
		hashText pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, email).Scan(&idUUID, &u.Email, &u.Name, &hashText, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by email: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.PasswordHash = textOrEmpty(hashText)
	return u, nil
}

// GetUserByName resolves a friend-request target by exact normalized name.
// Display names are not unique in storage; the oldest account wins, which
// matches how the mobile client expects targeting to behave.
func (s *UsersStore) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	const q = `
		SELECT id, email, name, created_at
		FROM users
		WHERE lower(name) = $1
		ORDER BY created_at ASC
		LIMIT 1
	`

	var (
		u      domain.User
		idUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, name).Scan(&idUUID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by name: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	return u, nil
}
