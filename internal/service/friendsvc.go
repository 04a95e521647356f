package service

import (
	"context"
	"errors"
	"strings"

	"routeshare/internal/domain"
)

type FriendsStore interface {
	CreateRequest(ctx context.Context, fromID, toID string) (domain.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, recipientID string) error
	RejectRequest(ctx context.Context, requestID, recipientID string) error
	ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error)
	ListOutgoing(ctx context.Context, userID string) ([]domain.FriendRequest, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error)
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
	HasPendingRequest(ctx context.Context, fromID, toID string) (bool, error)
}

type FriendsService struct {
	Users   UsersStore
	Friends FriendsStore
}

// SendRequest targets a user by display name. The application-side checks
// give precise error codes; the friend_requests_pair_uq constraint is the
// final authority under concurrent duplicate sends.
func (s *FriendsService) SendRequest(ctx context.Context, from domain.User, toName string) (domain.FriendRequest, error) {
	toName = strings.ToLower(strings.TrimSpace(toName))
	if len(toName) < 2 {
		return domain.FriendRequest{}, domain.ErrInvalidTarget
	}
	if toName == strings.ToLower(strings.TrimSpace(from.Name)) {
		return domain.FriendRequest{}, domain.ErrSelfRequest
	}

	target, err := s.Users.GetUserByName(ctx, toName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.FriendRequest{}, domain.ErrTargetNotFound
		}
		return domain.FriendRequest{}, err
	}
	if target.ID == from.ID {
		return domain.FriendRequest{}, domain.ErrSelfRequest
	}

	friends, err := s.Friends.AreFriends(ctx, from.ID, target.ID)
	if err != nil {
		return domain.FriendRequest{}, err
	}
	if friends {
		return domain.FriendRequest{}, domain.ErrAlreadyFriends
	}

	sent, err := s.Friends.HasPendingRequest(ctx, from.ID, target.ID)
	if err != nil {
		return domain.FriendRequest{}, err
	}
	if sent {
		return domain.FriendRequest{}, domain.ErrRequestAlreadySent
	}

	// The reverse direction is surfaced distinctly so the client can offer
	// "accept" instead of a re-request.
	received, err := s.Friends.HasPendingRequest(ctx, target.ID, from.ID)
	if err != nil {
		return domain.FriendRequest{}, err
	}
	if received {
		return domain.FriendRequest{}, domain.ErrRequestAlreadyReceived
	}

	fr, err := s.Friends.CreateRequest(ctx, from.ID, target.ID)
	if err != nil {
		return domain.FriendRequest{}, err
	}

	fr.User = domain.UserSummary{ID: target.ID, Name: target.Name}
	return fr, nil
}

func (s *FriendsService) ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	return s.Friends.ListIncoming(ctx, userID)
}

func (s *FriendsService) ListOutgoing(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	return s.Friends.ListOutgoing(ctx, userID)
}

func (s *FriendsService) Accept(ctx context.Context, userID, requestID string) error {
	return s.Friends.AcceptRequest(ctx, requestID, userID)
}

func (s *FriendsService) Reject(ctx context.Context, userID, requestID string) error {
	return s.Friends.RejectRequest(ctx, requestID, userID)
}

func (s *FriendsService) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	return s.Friends.ListFriends(ctx, userID)
}
