package service

import (
	"context"
	"strings"

	"routeshare/internal/domain"
)

type UserSearchStore interface {
	SearchUsers(ctx context.Context, q string, limit int) ([]domain.UserSummary, error)
}

type UsersService struct {
	Store UserSearchStore
}

// Search matches display names case-insensitively. A query shorter than two
// characters yields an empty list, not an error.
func (s *UsersService) Search(ctx context.Context, q string) ([]domain.UserSummary, error) {
	q = strings.TrimSpace(q)
	if len(q) < 2 {
		return []domain.UserSummary{}, nil
	}
	return s.Store.SearchUsers(ctx, q, 20)
}
