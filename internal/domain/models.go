package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// UserWithPassword is the store-side view of a user. PasswordHash is empty
// for accounts created through an external identity provider.
type UserWithPassword struct {
	User
	PasswordHash string
}

type ExternalAccount struct {
	ID         string
	UserID     string
	Provider   string
	ProviderID string
	Email      string
	CreatedAt  time.Time
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityFriends, VisibilityPublic:
		return true
	}
	return false
}

// Route's Path is stored and returned as-is; the server never interprets
// the recorded points.
type Route struct {
	ID         string
	OwnerID    string
	OwnerName  string
	Name       string
	DistanceM  int
	DurationS  int
	Path       json.RawMessage
	Visibility Visibility
	CreatedAt  time.Time
}

type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FriendRequest is a pending request. User is the counterparty from the
// perspective of whoever listed it: the sender on incoming requests, the
// recipient on outgoing ones.
type FriendRequest struct {
	ID         string      `json:"id"`
	FromUserID string      `json:"-"`
	ToUserID   string      `json:"-"`
	User       UserSummary `json:"user"`
	CreatedAt  time.Time   `json:"created_at"`
}
