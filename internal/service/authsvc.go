package service

import (
	"context"
	"errors"
	"strings"

	"routeshare/internal/auth"
	"routeshare/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	GetUserByName(ctx context.Context, name string) (domain.User, error)
}

type ExternalAccountsStore interface {
	GetByProvider(ctx context.Context, provider, providerID string) (domain.ExternalAccount, error)
	Link(ctx context.Context, userID, provider, providerID, email string) error
}

type IDTokenVerifier func(ctx context.Context, tokenString, expectedAud string) (*auth.ExternalTokenClaims, error)

type AuthService struct {
	Users    UsersStore
	External ExternalAccountsStore
	Tokens   *auth.TokenIssuer

	GoogleClientID string
	AppleServiceID string
	VerifyGoogle   IDTokenVerifier
	VerifyApple    IDTokenVerifier
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	fields := map[string]string{}
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "must be a valid email"
	}
	if name == "" {
		fields["name"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return domain.User{}, domain.NewValidationError(fields)
	}

	// Pre-check is an optimization; users_email_uq closes the race and the
	// store remaps the violation to the same error.
	if _, err := s.Users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	return s.Users.CreateUser(ctx, email, name, hash)
}

// Login returns a bearer access token. An unknown email is NOT_FOUND; a
// missing, corrupt, or mismatched hash all degrade to BAD_PASSWORD.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}

	if u.PasswordHash == "" {
		return "", domain.ErrBadPassword
	}
	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil || !ok {
		return "", domain.ErrBadPassword
	}

	return s.Tokens.Issue(u.ID)
}

// UserFromToken resolves the principal behind a bearer token. Any parse
// failure or dangling user id is an authentication failure.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := s.Tokens.Parse(token)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	u, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (string, error) {
	verify := s.VerifyGoogle
	if verify == nil {
		verify = auth.VerifyGoogleIDToken
	}
	claims, err := verify(ctx, idToken, s.GoogleClientID)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.loginExternal(ctx, "google", claims)
}

func (s *AuthService) LoginApple(ctx context.Context, idToken string) (string, error) {
	verify := s.VerifyApple
	if verify == nil {
		verify = auth.VerifyAppleIDToken
	}
	claims, err := verify(ctx, idToken, s.AppleServiceID)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return s.loginExternal(ctx, "apple", claims)
}

// loginExternal links or creates the account behind a verified provider
// identity, then issues the same access token as a password login.
func (s *AuthService) loginExternal(ctx context.Context, provider string, claims *auth.ExternalTokenClaims) (string, error) {
	acc, err := s.External.GetByProvider(ctx, provider, claims.Subject)
	if err == nil {
		return s.Tokens.Issue(acc.UserID)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	if claims.Email == "" {
		// Without the email scope there is nothing to key a new account on.
		return "", domain.NewValidationError(map[string]string{"id_token": "email scope required"})
	}

	var userID string
	existing, err := s.Users.GetUserByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		userID = existing.ID
	case errors.Is(err, domain.ErrNotFound):
		// Cut keeps the whole address when a provider email carries no "@".
		name, _, _ := strings.Cut(claims.Email, "@")
		created, err := s.Users.CreateUser(ctx, claims.Email, name, "")
		if err != nil {
			if errors.Is(err, domain.ErrEmailExists) {
				// Lost a race with a concurrent registration for the same
				// email; link to the winner.
				winner, lookupErr := s.Users.GetUserByEmail(ctx, claims.Email)
				if lookupErr != nil {
					return "", lookupErr
				}
				created = winner.User
			} else {
				return "", err
			}
		}
		userID = created.ID
	default:
		return "", err
	}

	if err := s.External.Link(ctx, userID, provider, claims.Subject, claims.Email); err != nil {
		return "", err
	}
	return s.Tokens.Issue(userID)
}
