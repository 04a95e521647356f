package httpapi

import (
	"net/http"
	"time"

	"routeshare/internal/domain"
)

type userOut struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserOut(u domain.User) userOut {
	return userOut{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (a *api) handleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	u, err := a.authSvc.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserOut(u))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	token, err := a.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

type externalLoginRequest struct {
	IDToken string `json:"id_token"`
}

func (a *api) handleAuthLoginGoogle(w http.ResponseWriter, r *http.Request) {
	var req externalLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	token, err := a.authSvc.LoginGoogle(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *api) handleAuthLoginApple(w http.ResponseWriter, r *http.Request) {
	var req externalLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	token, err := a.authSvc.LoginApple(r.Context(), req.IDToken)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	WriteJSON(w, http.StatusOK, toUserOut(u))
}
