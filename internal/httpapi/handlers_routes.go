package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"routeshare/internal/domain"
	"routeshare/internal/service"

	"github.com/google/uuid"
)

type routeOut struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	DistanceM  int       `json:"distance_m"`
	DurationS  int       `json:"duration_s"`
	Visibility string    `json:"visibility"`
	CreatedAt  time.Time `json:"created_at"`
}

type routeDetailOut struct {
	routeOut
	Path json.RawMessage `json:"path"`
}

type feedRouteOut struct {
	routeOut
	OwnerName string `json:"owner_name"`
}

func toRouteOut(r domain.Route) routeOut {
	return routeOut{
		ID:         r.ID,
		UserID:     r.OwnerID,
		Name:       r.Name,
		DistanceM:  r.DistanceM,
		DurationS:  r.DurationS,
		Visibility: string(r.Visibility),
		CreatedAt:  r.CreatedAt,
	}
}

func toRouteOuts(routes []domain.Route) []routeOut {
	out := make([]routeOut, 0, len(routes))
	for _, r := range routes {
		out = append(out, toRouteOut(r))
	}
	return out
}

func toFeedRouteOuts(routes []domain.Route) []feedRouteOut {
	out := make([]feedRouteOut, 0, len(routes))
	for _, r := range routes {
		out = append(out, feedRouteOut{routeOut: toRouteOut(r), OwnerName: r.OwnerName})
	}
	return out
}

// routeID rejects malformed ids before they reach the store, where a bad
// uuid literal would read as a query fault instead of a miss.
func routeID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

type createRouteRequest struct {
	Name       string          `json:"name"`
	DistanceM  int             `json:"distance_m"`
	DurationS  int             `json:"duration_s"`
	Path       json.RawMessage `json:"path"`
	Visibility string          `json:"visibility"`
}

func (a *api) handleRoutesCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createRouteRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	route, err := a.routesSvc.Create(r.Context(), u.ID, service.CreateRouteParams{
		Name:       req.Name,
		DistanceM:  req.DistanceM,
		DurationS:  req.DurationS,
		Path:       req.Path,
		Visibility: req.Visibility,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toRouteOut(route))
}

func (a *api) handleRoutesMine(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	routes, err := a.routesSvc.ListMine(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toRouteOuts(routes))
}

func (a *api) handleRoutesPublic(w http.ResponseWriter, r *http.Request) {
	routes, err := a.routesSvc.ListPublic(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toRouteOuts(routes))
}

func (a *api) handleRoutesGet(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, ok := routeID(r)
	if !ok {
		WriteDomainError(w, domain.ErrRouteNotFound)
		return
	}

	route, err := a.routesSvc.Get(r.Context(), u.ID, id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, routeDetailOut{routeOut: toRouteOut(route), Path: route.Path})
}

type updateRouteRequest struct {
	Name       *string `json:"name"`
	Visibility *string `json:"visibility"`
}

func (a *api) handleRoutesUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, ok := routeID(r)
	if !ok {
		WriteDomainError(w, domain.ErrRouteNotFound)
		return
	}

	var req updateRouteRequest
	if err := decodeJSONAllowUnknownFields(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "BAD_JSON", "invalid json")
		return
	}

	route, err := a.routesSvc.Update(r.Context(), u.ID, id, service.UpdateRouteParams{
		Name:       req.Name,
		Visibility: req.Visibility,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toRouteOut(route))
}

func (a *api) handleRoutesDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id, ok := routeID(r)
	if !ok {
		WriteDomainError(w, domain.ErrRouteNotFound)
		return
	}

	if err := a.routesSvc.Delete(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *api) handleFeed(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	routes, err := a.routesSvc.Feed(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toFeedRouteOuts(routes))
}
