package auth

import (
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/pathfinder-club/config"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Module represents the auth module.
type Module struct {
	service authservice.Service
	limiter *authhandlers.IPRateLimiter
	cfg     *config.Config
	logger  *slog.Logger
}

// NewModule creates a new auth module. actors is usually the club service.
func NewModule(
	cfg *config.Config,
	actors authservice.ActorResolver,
	logger *slog.Logger,
	tracer trace.Tracer,
) *Module {
	logger.Info("Initializing auth module")

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
	service := authservice.NewService(
		jwtProvider,
		actors,
		authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL},
		logger,
		tracer,
	)

	return &Module{
		service: service,
		limiter: authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		cfg:     cfg,
		logger:  logger,
	}
}

// Service returns the auth service for use by other modules.
func (m *Module) Service() authservice.Service {
	return m.service
}

// Edge returns the public middleware chain: CORS then per-IP rate limiting.
func (m *Module) Edge() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.CORSMiddleware(m.cfg.HTTP.AllowedOrigins),
		authhandlers.RateLimitMiddleware(m.limiter),
	}
}

// Authenticate returns the bearer-token middleware.
func (m *Module) Authenticate() func(http.Handler) http.Handler {
	return authhandlers.Middleware(m.service, m.logger)
}
