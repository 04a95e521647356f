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

// FriendsStore owns both tables of the friend graph: pending requests and
// materialized friend edges. Edges always exist in symmetric pairs; an
// asymmetric edge is a corruption state, so the two inserts on accept share
// one transaction with the request deletion.
type FriendsStore struct {
	pool *pgxpool.Pool
}

func NewFriendsStore(pool *pgxpool.Pool) *FriendsStore {
	return &FriendsStore{pool: pool}
}

func (s *FriendsStore) CreateRequest(ctx context.Context, fromID, toID string) (domain.FriendRequest, error) {
	const q = `
		INSERT INTO friend_requests (from_user_id, to_user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	var idUUID pgtype.UUID
	fr := domain.FriendRequest{FromUserID: fromID, ToUserID: toID}
	err := s.pool.QueryRow(ctx, q, fromID, toID).Scan(&idUUID, &fr.CreatedAt)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "friend_requests_pair_uq" {
			// Concurrent duplicate send lost the race to the unique pair
			// constraint; surfaced as a conflict, not a fault.
			return domain.FriendRequest{}, domain.ErrRequestAlreadyExists
		}
		return domain.FriendRequest{}, fmt.Errorf("create friend request: %w", err)
	}

	fr.ID = uuidOrEmpty(idUUID)
	return fr, nil
}

// AcceptRequest converts a pending request into the two directed friend
// edges and removes the request, all in one transaction. If the edges
// already exist the whole operation rolls back and the request survives.
func (s *FriendsStore) AcceptRequest(ctx context.Context, requestID, recipientID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var fromUUID, toUUID pgtype.UUID
	err = tx.QueryRow(ctx, `
		SELECT from_user_id, to_user_id
		FROM friend_requests
		WHERE id = $1
		FOR UPDATE
	`, requestID).Scan(&fromUUID, &toUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRequestNotFound
		}
		return fmt.Errorf("lookup friend request: %w", err)
	}
	if uuidOrEmpty(toUUID) != recipientID {
		return domain.ErrNotYourRequest
	}

	fromID := uuidOrEmpty(fromUUID)
	_, err = tx.Exec(ctx, `
		INSERT INTO friends (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
	`, fromID, recipientID)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "friends_pkey" {
			return domain.ErrAlreadyFriends
		}
		return fmt.Errorf("insert friend edges: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accept: %w", err)
	}
	return nil
}

// RejectRequest deletes the request without creating edges. Rejecting an
// already-resolved request reports REQUEST_NOT_FOUND.
func (s *FriendsStore) RejectRequest(ctx context.Context, requestID, recipientID string) error {
	var toUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT to_user_id FROM friend_requests WHERE id = $1
	`, requestID).Scan(&toUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRequestNotFound
		}
		return fmt.Errorf("lookup friend request: %w", err)
	}
	if uuidOrEmpty(toUUID) != recipientID {
		return domain.ErrNotYourRequest
	}

	ct, err := s.pool.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("reject friend request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (s *FriendsStore) ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	const q = `
		SELECT fr.id, fr.created_at, u.id, u.name
		FROM friend_requests fr
		JOIN users u ON u.id = fr.from_user_id
		WHERE fr.to_user_id = $1
		ORDER BY fr.created_at DESC
	`
	return s.listRequests(ctx, q, userID, "list incoming requests")
}

func (s *FriendsStore) ListOutgoing(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	const q = `
		SELECT fr.id, fr.created_at, u.id, u.name
		FROM friend_requests fr
		JOIN users u ON u.id = fr.to_user_id
		WHERE fr.from_user_id = $1
		ORDER BY fr.created_at DESC
	`
	return s.listRequests(ctx, q, userID, "list outgoing requests")
}

func (s *FriendsStore) listRequests(ctx context.Context, q, userID, op string) ([]domain.FriendRequest, error) {
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.FriendRequest
	for rows.Next() {
		var (
			fr         domain.FriendRequest
			reqIDUUID  pgtype.UUID
			userIDUUID pgtype.UUID
			name       string
		)
		if err := rows.Scan(&reqIDUUID, &fr.CreatedAt, &userIDUUID, &name); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		fr.ID = uuidOrEmpty(reqIDUUID)
		fr.User = domain.UserSummary{ID: uuidOrEmpty(userIDUUID), Name: name}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *FriendsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	const q = `
		SELECT u.id, u.name
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.name ASC
	`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var name string
		if err := rows.Scan(&idUUID, &name); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		out = append(out, domain.UserSummary{ID: uuidOrEmpty(idUUID), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}

func (s *FriendsStore) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)
	`, userID, friendID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return exists, nil
}

func (s *FriendsStore) HasPendingRequest(ctx context.Context, fromID, toID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM friend_requests WHERE from_user_id = $1 AND to_user_id = $2)
	`, fromID, toID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}
	return exists, nil
}
