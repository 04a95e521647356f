package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"routeshare/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// domainStatus pairs a sentinel with its HTTP status; the sentinel's text is
// the wire code.
var domainStatus = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidTarget, http.StatusBadRequest},
	{domain.ErrSelfRequest, http.StatusBadRequest},
	{domain.ErrBadName, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrBadPassword, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotOwner, http.StatusForbidden},
	{domain.ErrNotYourRequest, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrRouteNotFound, http.StatusNotFound},
	{domain.ErrTargetNotFound, http.StatusNotFound},
	{domain.ErrRequestNotFound, http.StatusNotFound},
	{domain.ErrEmailExists, http.StatusConflict},
	{domain.ErrAlreadyFriends, http.StatusConflict},
	{domain.ErrRequestAlreadySent, http.StatusConflict},
	{domain.ErrRequestAlreadyReceived, http.StatusConflict},
	{domain.ErrRequestAlreadyExists, http.StatusConflict},
}

// WriteDomainError maps domain sentinels to their status and wire code.
// Anything unrecognized is masked as a generic internal failure.
func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msg := "invalid request"
		if len(verr.Fields) > 0 {
			msg = verr.Error()
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}
	if errors.Is(err, domain.ErrValidation) {
		WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
		return
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			WriteError(w, m.status, m.err.Error(), m.err.Error())
			return
		}
	}

	WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
