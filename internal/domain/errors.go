package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain error codes double as the wire codes in the error envelope, so the
// strings here are part of the client contract.
var (
	ErrUnauthorized = errors.New("UNAUTHORIZED")
	ErrValidation   = errors.New("VALIDATION_ERROR")

	ErrEmailExists = errors.New("EMAIL_EXISTS")
	ErrNotFound    = errors.New("NOT_FOUND")
	ErrBadPassword = errors.New("BAD_PASSWORD")

	ErrRouteNotFound = errors.New("ROUTE_NOT_FOUND")
	ErrForbidden     = errors.New("FORBIDDEN")
	ErrNotOwner      = errors.New("NOT_OWNER")
	ErrBadName       = errors.New("BAD_NAME")

	ErrInvalidTarget          = errors.New("INVALID_TARGET")
	ErrSelfRequest            = errors.New("SELF_REQUEST")
	ErrTargetNotFound         = errors.New("TARGET_NOT_FOUND")
	ErrAlreadyFriends         = errors.New("ALREADY_FRIENDS")
	ErrRequestAlreadySent     = errors.New("REQUEST_ALREADY_SENT")
	ErrRequestAlreadyReceived = errors.New("REQUEST_ALREADY_RECEIVED")
	ErrRequestAlreadyExists   = errors.New("REQUEST_ALREADY_EXISTS")
	ErrRequestNotFound        = errors.New("REQUEST_NOT_FOUND")
	ErrNotYourRequest         = errors.New("NOT_YOUR_REQUEST")
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}
