package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/storefront/catalog-api/internal/api/handler"
	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/api/pipeline"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/cors"
	"github.com/storefront/catalog-api/internal/ratelimit"

	_ "github.com/storefront/catalog-api/docs"
)

// Limiters groups the three limiter instances.
type Limiters struct {
	General      *ratelimit.Limiter
	Auth         *ratelimit.Limiter
	ProductWrite *ratelimit.Limiter
}

// RouterDeps carries everything NewRouter wires into routes.
type RouterDeps struct {
	Logger        zerolog.Logger
	Products      ports.ProductService
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	CORS          *cors.Policy
	Limiters      Limiters
	Probes        []handler.Probe
	TrustProxy    bool
	BodyLimit     string

	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	bodyLimit := d.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "1M"
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "catalog",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(middleware.CORS(d.CORS, d.Logger.With().Str("component", "cors").Logger()))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Probes and tooling (no rate limit) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Probes...)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Pipelines ---
	general := pipeline.New(middleware.RateLimit(d.Limiters.General))
	productWrite := general.Then(
		middleware.RateLimit(d.Limiters.ProductWrite),
		middleware.Authenticate(d.Authenticator),
	)
	authLimited := general.Then(middleware.RateLimit(d.Limiters.Auth))

	productHandler := handler.NewProductHandler(d.Products)
	authHandler := handler.NewAuthHandler(d.Auth)

	e.GET("/", handler.Index, middleware.Pipeline(general))

	e.GET("/products", productHandler.List, middleware.Pipeline(general))
	e.GET("/products/:id", productHandler.Get, middleware.Pipeline(general))
	e.POST("/products", productHandler.Create, middleware.Pipeline(productWrite.Then(middleware.ValidateProduct())))
	e.PUT("/products/:id", productHandler.Update, middleware.Pipeline(productWrite.Then(middleware.ValidateProduct())))
	e.DELETE("/products/:id", productHandler.Delete, middleware.Pipeline(productWrite))

	e.POST("/register", authHandler.Register, middleware.Pipeline(authLimited.Then(middleware.ValidateRegistration())))
	e.POST("/login", authHandler.Login, middleware.Pipeline(authLimited.Then(middleware.ValidateLogin())))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
