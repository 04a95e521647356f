package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"routeshare/internal/domain"
)

const listLimit = 50

type RoutesStore interface {
	CreateRoute(ctx context.Context, ownerID, name string, distanceM, durationS int, path json.RawMessage, visibility domain.Visibility) (domain.Route, error)
	GetRoute(ctx context.Context, id string) (domain.Route, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Route, error)
	ListPublic(ctx context.Context, limit int) ([]domain.Route, error)
	Feed(ctx context.Context, userID string, limit int) ([]domain.Route, error)
	UpdateRoute(ctx context.Context, id string, name *string, visibility *domain.Visibility) (domain.Route, error)
	DeleteRoute(ctx context.Context, id string) error
}

type FriendChecker interface {
	AreFriends(ctx context.Context, userID, friendID string) (bool, error)
}

// PublicRoutesCache is satisfied by cache.RedisCache; a nil cache disables
// caching entirely.
type PublicRoutesCache interface {
	GetPublicRoutes(ctx context.Context) ([]domain.Route, error)
	SetPublicRoutes(ctx context.Context, routes []domain.Route) error
	InvalidatePublicRoutes(ctx context.Context) error
}

type RoutesService struct {
	Routes  RoutesStore
	Friends FriendChecker
	Cache   PublicRoutesCache
	Logger  *slog.Logger
}

type CreateRouteParams struct {
	Name       string
	DistanceM  int
	DurationS  int
	Path       json.RawMessage
	Visibility string
}

type UpdateRouteParams struct {
	Name       *string
	Visibility *string
}

// Create persists a route for the authenticated owner; the owner is never
// taken from client input.
func (s *RoutesService) Create(ctx context.Context, ownerID string, p CreateRouteParams) (domain.Route, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return domain.Route{}, domain.ErrBadName
	}

	fields := map[string]string{}
	if p.DistanceM < 0 {
		fields["distance_m"] = "must be >= 0"
	}
	if p.DurationS < 0 {
		fields["duration_s"] = "must be >= 0"
	}
	if len(p.Path) == 0 {
		fields["path"] = "required"
	}

	visibility := domain.VisibilityPrivate
	if p.Visibility != "" {
		visibility = domain.Visibility(p.Visibility)
		if !visibility.Valid() {
			fields["visibility"] = "must be one of private, friends, public"
		}
	}
	if len(fields) > 0 {
		return domain.Route{}, domain.NewValidationError(fields)
	}

	r, err := s.Routes.CreateRoute(ctx, ownerID, name, p.DistanceM, p.DurationS, p.Path, visibility)
	if err != nil {
		return domain.Route{}, err
	}
	s.invalidateCache(ctx)
	return r, nil
}

func (s *RoutesService) ListMine(ctx context.Context, ownerID string) ([]domain.Route, error) {
	return s.Routes.ListByOwner(ctx, ownerID)
}

// ListPublic serves from the cache when possible; cache failures degrade to
// the database, never to an error.
func (s *RoutesService) ListPublic(ctx context.Context) ([]domain.Route, error) {
	if s.Cache != nil {
		cached, err := s.Cache.GetPublicRoutes(ctx)
		if err != nil {
			s.logWarn("public routes cache read failed", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	routes, err := s.Routes.ListPublic(ctx, listLimit)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetPublicRoutes(ctx, routes); err != nil {
			s.logWarn("public routes cache write failed", err)
		}
	}
	return routes, nil
}

func (s *RoutesService) Feed(ctx context.Context, userID string) ([]domain.Route, error) {
	return s.Routes.Feed(ctx, userID, listLimit)
}

// Get enforces the visibility gate: owner, public, or friend-of-owner.
func (s *RoutesService) Get(ctx context.Context, viewerID, routeID string) (domain.Route, error) {
	r, err := s.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return domain.Route{}, err
	}

	isFriend := false
	if r.Visibility == domain.VisibilityFriends && r.OwnerID != viewerID {
		isFriend, err = s.Friends.AreFriends(ctx, viewerID, r.OwnerID)
		if err != nil {
			return domain.Route{}, err
		}
	}
	if !domain.CanView(viewerID, r, isFriend) {
		return domain.Route{}, domain.ErrForbidden
	}
	return r, nil
}

func (s *RoutesService) Update(ctx context.Context, ownerID, routeID string, p UpdateRouteParams) (domain.Route, error) {
	r, err := s.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return domain.Route{}, err
	}
	if r.OwnerID != ownerID {
		return domain.Route{}, domain.ErrNotOwner
	}

	var name *string
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return domain.Route{}, domain.ErrBadName
		}
		name = &trimmed
	}

	var visibility *domain.Visibility
	if p.Visibility != nil {
		v := domain.Visibility(*p.Visibility)
		if !v.Valid() {
			return domain.Route{}, domain.NewValidationError(map[string]string{"visibility": "must be one of private, friends, public"})
		}
		visibility = &v
	}

	updated, err := s.Routes.UpdateRoute(ctx, routeID, name, visibility)
	if err != nil {
		return domain.Route{}, err
	}
	updated.OwnerName = r.OwnerName
	s.invalidateCache(ctx)
	return updated, nil
}

func (s *RoutesService) Delete(ctx context.Context, ownerID, routeID string) error {
	r, err := s.Routes.GetRoute(ctx, routeID)
	if err != nil {
		return err
	}
	if r.OwnerID != ownerID {
		return domain.ErrNotOwner
	}

	if err := s.Routes.DeleteRoute(ctx, routeID); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *RoutesService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidatePublicRoutes(ctx); err != nil {
		s.logWarn("public routes cache invalidation failed", err)
	}
}

func (s *RoutesService) logWarn(msg string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, "err", err)
}
