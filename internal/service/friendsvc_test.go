package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"routeshare/internal/domain"
)

type stubUsersStore struct {
	t *testing.T

	createUserFunc     func(context.Context, string, string, string) (domain.User, error)
	getUserByIDFunc    func(context.Context, string) (domain.User, error)
	getUserByEmailFunc func(context.Context, string) (domain.UserWithPassword, error)
	getUserByNameFunc  func(context.Context, string) (domain.User, error)
}

func (s *stubUsersStore) CreateUser(ctx context.Context, email, name, passwordHash string) (domain.User, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, email, name, passwordHash)
	}
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc != nil {
		return s.getUserByIDFunc(ctx, id)
	}
	s.t.Fatalf("GetUserByID called unexpectedly")
	return domain.User{}, context.Canceled
}

func (s *stubUsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error) {
	if s.getUserByEmailFunc != nil {
		return s.getUserByEmailFunc(ctx, email)
	}
	s.t.Fatalf("GetUserByEmail called unexpectedly")
	return domain.UserWithPassword{}, context.Canceled
}

func (s *stubUsersStore) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	if s.getUserByNameFunc != nil {
		return s.getUserByNameFunc(ctx, name)
	}
	s.t.Fatalf("GetUserByName called unexpectedly")
	return domain.User{}, context.Canceled
}

type stubFriendsStore struct {
	t *testing.T

	createRequestFunc     func(context.Context, string, string) (domain.FriendRequest, error)
	acceptRequestFunc     func(context.Context, string, string) error
	rejectRequestFunc     func(context.Context, string, string) error
	listIncomingFunc      func(context.Context, string) ([]domain.FriendRequest, error)
	listOutgoingFunc      func(context.Context, string) ([]domain.FriendRequest, error)
	listFriendsFunc       func(context.Context, string) ([]domain.UserSummary, error)
	areFriendsFunc        func(context.Context, string, string) (bool, error)
	hasPendingRequestFunc func(context.Context, string, string) (bool, error)
}

func (s *stubFriendsStore) CreateRequest(ctx context.Context, fromID, toID string) (domain.FriendRequest, error) {
	if s.createRequestFunc != nil {
		return s.createRequestFunc(ctx, fromID, toID)
	}
	s.t.Fatalf("CreateRequest called unexpectedly")
	return domain.FriendRequest{}, context.Canceled
}

func (s *stubFriendsStore) AcceptRequest(ctx context.Context, requestID, recipientID string) error {
	if s.acceptRequestFunc != nil {
		return s.acceptRequestFunc(ctx, requestID, recipientID)
	}
	s.t.Fatalf("AcceptRequest called unexpectedly")
	return context.Canceled
}

func (s *stubFriendsStore) RejectRequest(ctx context.Context, requestID, recipientID string) error {
	if s.rejectRequestFunc != nil {
		return s.rejectRequestFunc(ctx, requestID, recipientID)
	}
	s.t.Fatalf("RejectRequest called unexpectedly")
	return context.Canceled
}

func (s *stubFriendsStore) ListIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	if s.listIncomingFunc != nil {
		return s.listIncomingFunc(ctx, userID)
	}
	s.t.Fatalf("ListIncoming called unexpectedly")
	return nil, context.Canceled
}

func (s *stubFriendsStore) ListOutgoing(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	if s.listOutgoingFunc != nil {
		return s.listOutgoingFunc(ctx, userID)
	}
	s.t.Fatalf("ListOutgoing called unexpectedly")
	return nil, context.Canceled
}

func (s *stubFriendsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if s.listFriendsFunc != nil {
		return s.listFriendsFunc(ctx, userID)
	}
	s.t.Fatalf("ListFriends called unexpectedly")
	return nil, context.Canceled
}

func (s *stubFriendsStore) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	if s.areFriendsFunc != nil {
		return s.areFriendsFunc(ctx, userID, friendID)
	}
	s.t.Fatalf("AreFriends called unexpectedly")
	return false, context.Canceled
}

func (s *stubFriendsStore) HasPendingRequest(ctx context.Context, fromID, toID string) (bool, error) {
	if s.hasPendingRequestFunc != nil {
		return s.hasPendingRequestFunc(ctx, fromID, toID)
	}
	s.t.Fatalf("HasPendingRequest called unexpectedly")
	return false, context.Canceled
}

var alice = domain.User{ID: "user-1", Email: "a@x.com", Name: "alice"}

func TestSendRequestRejectsShortTarget(t *testing.T) {
	svc := &FriendsService{Users: &stubUsersStore{t: t}, Friends: &stubFriendsStore{t: t}}

	for _, target := range []string{"", " ", "b", "  b  "} {
		_, err := svc.SendRequest(context.Background(), alice, target)
		if !errors.Is(err, domain.ErrInvalidTarget) {
			t.Fatalf("target %q: got %v, want INVALID_TARGET", target, err)
		}
	}
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc := &FriendsService{Users: &stubUsersStore{t: t}, Friends: &stubFriendsStore{t: t}}

	_, err := svc.SendRequest(context.Background(), alice, "  ALICE ")
	if !errors.Is(err, domain.ErrSelfRequest) {
		t.Fatalf("got %v, want SELF_REQUEST", err)
	}
}

func TestSendRequestTargetNotFound(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(_ context.Context, name string) (domain.User, error) {
			if name != "bob" {
				t.Fatalf("unexpected lookup name: %q", name)
			}
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := &FriendsService{Users: users, Friends: &stubFriendsStore{t: t}}

	_, err := svc.SendRequest(context.Background(), alice, " Bob ")
	if !errors.Is(err, domain.ErrTargetNotFound) {
		t.Fatalf("got %v, want TARGET_NOT_FOUND", err)
	}
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-2", Name: "bob"}, nil
		},
	}
	friends := &stubFriendsStore{
		t:              t,
		areFriendsFunc: func(context.Context, string, string) (bool, error) { return true, nil },
	}
	svc := &FriendsService{Users: users, Friends: friends}

	_, err := svc.SendRequest(context.Background(), alice, "bob")
	if !errors.Is(err, domain.ErrAlreadyFriends) {
		t.Fatalf("got %v, want ALREADY_FRIENDS", err)
	}
}

func TestSendRequestDuplicate(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-2", Name: "bob"}, nil
		},
	}
	friends := &stubFriendsStore{
		t:              t,
		areFriendsFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		hasPendingRequestFunc: func(_ context.Context, fromID, toID string) (bool, error) {
			return fromID == "user-1" && toID == "user-2", nil
		},
	}
	svc := &FriendsService{Users: users, Friends: friends}

	_, err := svc.SendRequest(context.Background(), alice, "bob")
	if !errors.Is(err, domain.ErrRequestAlreadySent) {
		t.Fatalf("got %v, want REQUEST_ALREADY_SENT", err)
	}
}

func TestSendRequestReverseDetection(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-2", Name: "bob"}, nil
		},
	}
	friends := &stubFriendsStore{
		t:              t,
		areFriendsFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		hasPendingRequestFunc: func(_ context.Context, fromID, toID string) (bool, error) {
			// bob already asked alice
			return fromID == "user-2" && toID == "user-1", nil
		},
	}
	svc := &FriendsService{Users: users, Friends: friends}

	_, err := svc.SendRequest(context.Background(), alice, "bob")
	if !errors.Is(err, domain.ErrRequestAlreadyReceived) {
		t.Fatalf("got %v, want REQUEST_ALREADY_RECEIVED", err)
	}
}

func TestSendRequestSuccess(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-2", Name: "bob"}, nil
		},
	}
	friends := &stubFriendsStore{
		t:                     t,
		areFriendsFunc:        func(context.Context, string, string) (bool, error) { return false, nil },
		hasPendingRequestFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		createRequestFunc: func(_ context.Context, fromID, toID string) (domain.FriendRequest, error) {
			if fromID != "user-1" || toID != "user-2" {
				t.Fatalf("unexpected pair: %s -> %s", fromID, toID)
			}
			return domain.FriendRequest{ID: "req-1", FromUserID: fromID, ToUserID: toID, CreatedAt: created}, nil
		},
	}
	svc := &FriendsService{Users: users, Friends: friends}

	fr, err := svc.SendRequest(context.Background(), alice, " Bob ")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if fr.ID != "req-1" || fr.User.ID != "user-2" || fr.User.Name != "bob" {
		t.Fatalf("unexpected request: %#v", fr)
	}
	if !fr.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %s", fr.CreatedAt)
	}
}

func TestSendRequestConstraintRace(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByNameFunc: func(context.Context, string) (domain.User, error) {
			return domain.User{ID: "user-2", Name: "bob"}, nil
		},
	}
	friends := &stubFriendsStore{
		t:                     t,
		areFriendsFunc:        func(context.Context, string, string) (bool, error) { return false, nil },
		hasPendingRequestFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		createRequestFunc: func(context.Context, string, string) (domain.FriendRequest, error) {
			return domain.FriendRequest{}, domain.ErrRequestAlreadyExists
		},
	}
	svc := &FriendsService{Users: users, Friends: friends}

	_, err := svc.SendRequest(context.Background(), alice, "bob")
	if !errors.Is(err, domain.ErrRequestAlreadyExists) {
		t.Fatalf("got %v, want REQUEST_ALREADY_EXISTS", err)
	}
}

func TestAcceptPassesRecipient(t *testing.T) {
	friends := &stubFriendsStore{
		t: t,
		acceptRequestFunc: func(_ context.Context, requestID, recipientID string) error {
			if requestID != "req-1" || recipientID != "user-1" {
				t.Fatalf("unexpected accept args: %s %s", requestID, recipientID)
			}
			return nil
		},
	}
	svc := &FriendsService{Friends: friends}

	if err := svc.Accept(context.Background(), "user-1", "req-1"); err != nil {
		t.Fatalf("accept: %v", err)
	}
}

func TestRejectResolvedRequestIsNotFound(t *testing.T) {
	friends := &stubFriendsStore{
		t: t,
		rejectRequestFunc: func(context.Context, string, string) error {
			return domain.ErrRequestNotFound
		},
	}
	svc := &FriendsService{Friends: friends}

	err := svc.Reject(context.Background(), "user-1", "req-gone")
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Fatalf("got %v, want REQUEST_NOT_FOUND", err)
	}
}
