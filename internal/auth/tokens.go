package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints and parses the bearer access tokens handed out by
// /auth/login and the social sign-in endpoints. Tokens carry only the user
// id (sub) and an expiry.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now().Add(t.TTL)),
		IssuedAt:  jwt.NewNumericDate(now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse returns the user id a valid token was issued for.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid access token")
	}
	return claims.Subject, nil
}
