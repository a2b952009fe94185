// @title                       Bookstore API
// @version                     1.0
// @description                 JWT authentication and role-gated access to the book catalogue.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/simplewebapi/bookstore-api/internal/api"
	"github.com/simplewebapi/bookstore-api/internal/api/middleware"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/service"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/config"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/db/mongo"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/db/redis"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/http/handlers"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/queue"
	"github.com/simplewebapi/bookstore-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; fall back to a plain JSON one.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "bookstore-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Identity database ---
	userClient, userDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.UserStore.URI, Database: cfg.UserStore.Database})
	if err != nil {
		return err
	}
	defer disconnect(userClient, log)

	// --- Book database ---
	bookClient, bookDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.BookStore.URI, Database: cfg.BookStore.Database})
	if err != nil {
		return err
	}
	defer disconnect(bookClient, log)

	users := mongo.NewUserStore(userDB,
		domain.DefaultPasswordPolicy(),
		domain.LockoutPolicy{MaxFailedAttempts: cfg.Auth.LockoutMaxAttempts, Duration: cfg.Auth.LockoutDuration},
	)
	roles := mongo.NewRoleStore(userDB)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := roles.EnsureIndexes(ctx); err != nil {
		return err
	}

	readiness := []handlers.Pinger{
		mongo.NewPinger("identity-mongo", userClient),
		mongo.NewPinger("bookstore-mongo", bookClient),
	}

	// --- Throttle (optional) ---
	var limiter middleware.Limiter
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		limiter = redis.NewThrottle(rdb, cfg.Throttle.Limit, cfg.Throttle.Window)
		readiness = append(readiness, redis.NewPinger(rdb))
	} else {
		log.Warn().Msg("redis disabled, login and signup are not throttled")
	}

	if cfg.Auth.SeedAdmin == "" {
		log.Warn().Msg("AUTH_SEED_ADMIN not set, admin bootstrap disabled")
	}

	trustedProxies, err := cfg.TrustedProxyRanges()
	if err != nil {
		return err
	}

	// --- Services ---
	audit := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(mongo.NewAuditRepository(userDB), log), log)
	tokens := service.NewTokenService(cfg.Auth.SecretKey, roles)

	e := api.NewRouter(api.Services{
		Auth:   service.NewAuthService(users, roles, tokens, audit, cfg.Auth.SeedAdmin, log),
		Users:  service.NewUsersService(users, roles),
		Books:  service.NewBookService(mongo.NewBookRepository(bookDB), log),
		Tokens: tokens,
	}, api.Options{
		Log:            log,
		Limiter:        limiter,
		Readiness:      readiness,
		Metrics:        true,
		Swagger:        cfg.IsDevelopment(),
		TrustedProxies: trustedProxies,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return audit.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down http server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func disconnect(c interface{ Disconnect(context.Context) error }, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect")
	}
}
