package httpapi

import (
	"net/http"

	"routeshare/internal/domain"
)

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	users, err := a.usersSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if users == nil {
		users = []domain.UserSummary{}
	}
	WriteJSON(w, http.StatusOK, users)
}
