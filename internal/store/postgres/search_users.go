package postgres

import (
	"context"
	"fmt"
	"strings"

	"routeshare/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserSearchStore struct {
	pool *pgxpool.Pool
}

func NewUserSearchStore(pool *pgxpool.Pool) *UserSearchStore {
	return &UserSearchStore{pool: pool}
}

func (s *UserSearchStore) SearchUsers(ctx context.Context, q string, limit int) ([]domain.UserSummary, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return []domain.UserSummary{}, nil
	}

	like := "%" + escapeLike(q) + "%"
	const query = `
		SELECT id, name
		FROM users
		WHERE name ILIKE $1
		ORDER BY name ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, like, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var name string
		if err := rows.Scan(&idUUID, &name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, domain.UserSummary{ID: uuidOrEmpty(idUUID), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	return out, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
