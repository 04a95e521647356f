package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"routeshare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoutesStore struct {
	pool *pgxpool.Pool
}

func NewRoutesStore(pool *pgxpool.Pool) *RoutesStore {
	return &RoutesStore{pool: pool}
}

func (s *RoutesStore) CreateRoute(ctx context.Context, ownerID, name string, distanceM, durationS int, path json.RawMessage, visibility domain.Visibility) (domain.Route, error) {
	const q = `
		INSERT INTO routes (user_id, name, distance_m, duration_s, path, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var idUUID pgtype.UUID
	r := domain.Route{
		OwnerID:    ownerID,
		Name:       name,
		DistanceM:  distanceM,
		DurationS:  durationS,
		Path:       path,
		Visibility: visibility,
	}
	err := s.pool.QueryRow(ctx, q, ownerID, name, distanceM, durationS, path, visibility).Scan(&idUUID, &r.CreatedAt)
	if err != nil {
		return domain.Route{}, fmt.Errorf("create route: %w", err)
	}

	r.ID = uuidOrEmpty(idUUID)
	return r, nil
}

// GetRoute returns the full record including the recorded path.
func (s *RoutesStore) GetRoute(ctx context.Context, id string) (domain.Route, error) {
	const q = `
		SELECT r.id, r.user_id, u.name, r.name, r.distance_m, r.duration_s, r.path, r.visibility, r.created_at
		FROM routes r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`

	var (
		r           domain.Route
		idUUID      pgtype.UUID
		ownerIDUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&idUUID,
		&ownerIDUUID,
		&r.OwnerName,
		&r.Name,
		&r.DistanceM,
		&r.DurationS,
		&r.Path,
		&r.Visibility,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrRouteNotFound
		}
		return domain.Route{}, fmt.Errorf("get route: %w", err)
	}

	r.ID = uuidOrEmpty(idUUID)
	r.OwnerID = uuidOrEmpty(ownerIDUUID)
	return r, nil
}

func (s *RoutesStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Route, error) {
	const q = `
		SELECT r.id, r.user_id, u.name, r.name, r.distance_m, r.duration_s, r.visibility, r.created_at
		FROM routes r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := s.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list routes by owner: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, "list routes by owner")
}

func (s *RoutesStore) ListPublic(ctx context.Context, limit int) ([]domain.Route, error) {
	const q = `
		SELECT r.id, r.user_id, u.name, r.name, r.distance_m, r.duration_s, r.visibility, r.created_at
		FROM routes r
		JOIN users u ON u.id = r.user_id
		WHERE r.visibility = 'public'
		ORDER BY r.created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list public routes: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, "list public routes")
}

// Feed returns the viewer's own routes, all public routes, and friends-only
// routes owned by the viewer's friends, newest first. Rows are distinct by
// construction (each route row matches the predicate once).
func (s *RoutesStore) Feed(ctx context.Context, userID string, limit int) ([]domain.Route, error) {
	const q = `
		SELECT r.id, r.user_id, u.name, r.name, r.distance_m, r.duration_s, r.visibility, r.created_at
		FROM routes r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		   OR r.visibility = 'public'
		   OR (r.visibility = 'friends' AND r.user_id IN (
			SELECT friend_id FROM friends WHERE user_id = $1
		   ))
		ORDER BY r.created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows, "feed")
}

// UpdateRoute applies the provided fields only; nil means untouched.
func (s *RoutesStore) UpdateRoute(ctx context.Context, id string, name *string, visibility *domain.Visibility) (domain.Route, error) {
	const q = `
		UPDATE routes
		SET name = COALESCE($2, name),
		    visibility = COALESCE($3, visibility)
		WHERE id = $1
		RETURNING id, user_id, name, distance_m, duration_s, visibility, created_at
	`

	var nameArg, visArg any
	if name != nil {
		nameArg = *name
	}
	if visibility != nil {
		visArg = string(*visibility)
	}

	var (
		r           domain.Route
		idUUID      pgtype.UUID
		ownerIDUUID pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, id, nameArg, visArg).Scan(
		&idUUID,
		&ownerIDUUID,
		&r.Name,
		&r.DistanceM,
		&r.DurationS,
		&r.Visibility,
		&r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrRouteNotFound
		}
		return domain.Route{}, fmt.Errorf("update route: %w", err)
	}

	r.ID = uuidOrEmpty(idUUID)
	r.OwnerID = uuidOrEmpty(ownerIDUUID)
	return r, nil
}

func (s *RoutesStore) DeleteRoute(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrRouteNotFound
	}
	return nil
}

func scanRoutes(rows pgx.Rows, op string) ([]domain.Route, error) {
	var out []domain.Route
	for rows.Next() {
		var (
			r           domain.Route
			idUUID      pgtype.UUID
			ownerIDUUID pgtype.UUID
		)
		if err := rows.Scan(
			&idUUID,
			&ownerIDUUID,
			&r.OwnerName,
			&r.Name,
			&r.DistanceM,
			&r.DurationS,
			&r.Visibility,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		r.ID = uuidOrEmpty(idUUID)
		r.OwnerID = uuidOrEmpty(ownerIDUUID)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
