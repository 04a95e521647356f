package httpapi

import (
	"net/http"
	"time"

	"routeshare/internal/domain"

	"github.com/google/uuid"
)

type friendRequestOut struct {
	ID        string             `json:"id"`
	User      domain.UserSummary `json:"user"`
	CreatedAt time.Time          `json:"created_at"`
}

func toFriendRequestOuts(reqs []domain.FriendRequest) []friendRequestOut {
	out := make([]friendRequestOut, 0, len(reqs))
	for _, fr := range reqs {
		out = append(out, friendRequestOut{ID: fr.ID, User: fr.User, CreatedAt: fr.CreatedAt})
	}
	return out
}

func requestID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

type createFriendRequestRequest struct {
	ToName string `json:"to_name"`
}

func (a *api) handleFriendRequestCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createFriendRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	fr, err := a.friendsSvc.SendRequest(r.Context(), u, req.ToName)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, friendRequestOut{ID: fr.ID, User: fr.User, CreatedAt: fr.CreatedAt})
}

func (a *api) handleFriendRequestsIncoming(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	reqs, err := a.friendsSvc.ListIncoming(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toFriendRequestOuts(reqs))
}

func (a *api) handleFriendRequestsOutgoing(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	reqs, err := a.friendsSvc.ListOutgoing(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toFriendRequestOuts(reqs))
}

func (a *api) handleFriendRequestAccept(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, ok := requestID(r)
	if !ok {
		WriteDomainError(w, domain.ErrRequestNotFound)
		return
	}

	if err := a.friendsSvc.Accept(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (a *api) handleFriendRequestReject(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, ok := requestID(r)
	if !ok {
		WriteDomainError(w, domain.ErrRequestNotFound)
		return
	}

	if err := a.friendsSvc.Reject(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (a *api) handleFriendsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	friends, err := a.friendsSvc.ListFriends(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if friends == nil {
		friends = []domain.UserSummary{}
	}
	WriteJSON(w, http.StatusOK, friends)
}
