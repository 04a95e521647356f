package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"routeshare/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth    *service.AuthService
	Friends *service.FriendsService
	Routes  *service.RoutesService
	Users   *service.UsersService
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &api{
		logger:     logger,
		dbPing:     opts.DBPing,
		authSvc:    opts.Auth,
		friendsSvc: opts.Friends,
		routesSvc:  opts.Routes,
		usersSvc:   opts.Users,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /healthz", a.handleHealthz)

	mux.HandleFunc("POST /auth/register", a.handleAuthRegister)
	mux.HandleFunc("POST /auth/login", a.handleAuthLogin)
	mux.HandleFunc("POST /auth/google", a.handleAuthLoginGoogle)
	mux.HandleFunc("POST /auth/apple", a.handleAuthLoginApple)

	mux.HandleFunc("GET /me", a.requireAuth(a.handleMe))
	mux.HandleFunc("GET /users/search", a.requireAuth(a.handleUsersSearch))

	mux.HandleFunc("POST /routes", a.requireAuth(a.handleRoutesCreate))
	mux.HandleFunc("GET /routes/mine", a.requireAuth(a.handleRoutesMine))
	mux.HandleFunc("GET /routes/public", a.requireAuth(a.handleRoutesPublic))
	mux.HandleFunc("GET /routes/{id}", a.requireAuth(a.handleRoutesGet))
	mux.HandleFunc("PATCH /routes/{id}", a.requireAuth(a.handleRoutesUpdate))
	mux.HandleFunc("DELETE /routes/{id}", a.requireAuth(a.handleRoutesDelete))
	mux.HandleFunc("GET /feed", a.requireAuth(a.handleFeed))

	mux.HandleFunc("POST /friend-requests", a.requireAuth(a.handleFriendRequestCreate))
	mux.HandleFunc("GET /friend-requests/incoming", a.requireAuth(a.handleFriendRequestsIncoming))
	mux.HandleFunc("GET /friend-requests/outgoing", a.requireAuth(a.handleFriendRequestsOutgoing))
	mux.HandleFunc("POST /friend-requests/{id}/accept", a.requireAuth(a.handleFriendRequestAccept))
	mux.HandleFunc("POST /friend-requests/{id}/reject", a.requireAuth(a.handleFriendRequestReject))
	mux.HandleFunc("GET /friends", a.requireAuth(a.handleFriendsList))

	var h http.Handler = mux
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

type api struct {
	logger *slog.Logger

	dbPing func(context.Context) error

	authSvc    *service.AuthService
	friendsSvc *service.FriendsService
	routesSvc  *service.RoutesService
	usersSvc   *service.UsersService
}

func (a *api) handleRoot(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
