package api

import (
	"net"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/simplewebapi/bookstore-api/docs"

	"github.com/simplewebapi/bookstore-api/internal/api/handler"
	"github.com/simplewebapi/bookstore-api/internal/api/middleware"
	"github.com/simplewebapi/bookstore-api/internal/core/domain"
	"github.com/simplewebapi/bookstore-api/internal/core/ports"
	"github.com/simplewebapi/bookstore-api/internal/infrastructure/http/handlers"
)

// Services are the use cases the HTTP layer delegates to.
type Services struct {
	Auth   ports.AuthService
	Users  ports.UsersService
	Books  ports.BookService
	Tokens ports.TokenParser
}

// Options toggles the optional parts of the router.
type Options struct {
	Log zerolog.Logger
	// Limiter throttles /login and /signup; nil disables throttling.
	Limiter middleware.Limiter
	// Readiness lists the dependencies checked by /health/ready.
	Readiness []handlers.Pinger
	// Metrics registers the Prometheus HTTP middleware and /metrics.
	// Collectors are global, so enable it once per process.
	Metrics bool
	// Swagger serves the API docs under /swagger/*.
	Swagger bool
	// TrustedProxies are the only peers whose X-Forwarded-For is honoured
	// when resolving the client IP used by the throttle.
	TrustedProxies []*net.IPNet
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)
	e.IPExtractor = ipExtractor(opts.TrustedProxies)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	if opts.Metrics {
		e.Use(echoprometheus.NewMiddleware("bookstore"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	usersHandler := handler.NewUsersHandler(svc.Users)
	bookHandler := handler.NewBookHandler(svc.Books)

	authenticated := middleware.Authenticate(svc.Tokens)
	userPolicy := middleware.RequirePolicy(domain.PolicyUser)
	adminPolicy := middleware.RequirePolicy(domain.PolicyAdministrator)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login, throttled(opts, "login")...)
	e.POST("/signup", authHandler.Signup, throttled(opts, "signup")...)
	e.POST("/admin", authHandler.Admin, authenticated)

	// --- Users ---
	e.GET("/users", usersHandler.List, authenticated, adminPolicy)
	e.GET("/users/current", usersHandler.Current, authenticated)

	// --- Books ---
	e.GET("/books", bookHandler.List, authenticated, userPolicy)
	e.GET("/books/:id", bookHandler.Get, authenticated, userPolicy)
	e.POST("/books", bookHandler.Create, authenticated, adminPolicy)
	e.PUT("/books/:id", bookHandler.Update, authenticated, adminPolicy)
	e.DELETE("/books/:id", bookHandler.Delete, authenticated, adminPolicy)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(opts.Readiness...).Readiness)

	if opts.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	trust := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		trust = append(trust, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(trust...)
}

func throttled(opts Options, route string) []echo.MiddlewareFunc {
	if opts.Limiter == nil {
		return nil
	}
	return []echo.MiddlewareFunc{middleware.Throttle(opts.Limiter, route, opts.Log)}
}
