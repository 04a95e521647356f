package httpapi

import (
	"context"
	"net/http"
	"strings"

	"routeshare/internal/domain"
)

type authCtxKey int

const authUserKey authCtxKey = iota

// requireAuth resolves the bearer token to a principal and stores it in the
// request context. Anything short of a valid token for an existing user is
// a plain 401.
func (a *api) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		u, err := a.authSvc.UserFromToken(r.Context(), token)
		if err != nil {
			WriteDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authUserKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func CurrentUser(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(authUserKey).(domain.User)
	return u, ok
}
