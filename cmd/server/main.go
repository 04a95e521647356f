package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"routeshare/internal/auth"
	"routeshare/internal/cache"
	"routeshare/internal/config"
	"routeshare/internal/httpapi"
	"routeshare/internal/service"
	"routeshare/internal/store/postgres"
)

func main() {
	// A missing .env is the normal case in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	issuer := &auth.TokenIssuer{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	}

	var (
		authSvc    *service.AuthService
		friendsSvc *service.FriendsService
		routesSvc  *service.RoutesService
		usersSvc   *service.UsersService
		dbPing     func(context.Context) error
	)

	if cfg.DBDSN != "" {
		pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
		if err != nil {
			logger.Error("db open failed", "err", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if err := postgres.EnsureSchema(context.Background(), pgPool); err != nil {
			logger.Error("schema bootstrap failed", "err", err)
			os.Exit(1)
		}

		users := postgres.NewUsersStore(pgPool)
		external := postgres.NewExternalAccountsStore(pgPool)
		friends := postgres.NewFriendsStore(pgPool)
		routes := postgres.NewRoutesStore(pgPool)
		userSearch := postgres.NewUserSearchStore(pgPool)

		var publicCache service.PublicRoutesCache
		if cfg.RedisAddr != "" {
			rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
			if err := rc.Ping(context.Background()); err != nil {
				logger.Warn("redis unreachable, public routes cache disabled", "err", err)
			} else {
				publicCache = rc
			}
		}

		authSvc = &service.AuthService{
			Users:          users,
			External:       external,
			Tokens:         issuer,
			GoogleClientID: cfg.GoogleClientID,
			AppleServiceID: cfg.AppleServiceID,
		}
		friendsSvc = &service.FriendsService{
			Users:   users,
			Friends: friends,
		}
		routesSvc = &service.RoutesService{
			Routes:  routes,
			Friends: friends,
			Cache:   publicCache,
			Logger:  logger,
		}
		usersSvc = &service.UsersService{Store: userSearch}
		dbPing = pgPool.Ping
	}

	router := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:  logger,
		IsProd:  cfg.IsProd(),
		DBPing:  dbPing,
		Auth:    authSvc,
		Friends: friendsSvc,
		Routes:  routesSvc,
		Users:   usersSvc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
