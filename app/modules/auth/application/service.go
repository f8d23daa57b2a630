package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/infrastructure/jwt"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/Black-And-White-Club/pathfinder-club/internal/apperr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTokenTTL applies when Config.DefaultTTL is zero.
const DefaultTokenTTL = 24 * time.Hour

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
}

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	actors      ActorResolver
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service.
func NewService(
	jwtProvider authjwt.Provider,
	actors ActorResolver,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	return &service{
		jwtProvider: jwtProvider,
		actors:      actors,
		config:      config,
		logger:      logger,
		tracer:      tracer,
	}
}

// IssueToken mints a bearer token for an existing member.
func (s *service) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	actor, err := s.actors.ResolveActor(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}

	ttl := s.config.DefaultTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	token, err := s.jwtProvider.GenerateToken(&authdomain.Claims{
		UserID: actor.UserID,
		ClubID: actor.ClubID,
		Role:   actor.Role,
	}, ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token",
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: %w", ErrGenerateToken, err)
	}
	return token, nil
}

// Authenticate validates a bearer token and resolves the caller. The token's
// club and role are informational; the stored membership wins so role
// changes take effect without reissuing tokens.
func (s *service) Authenticate(ctx context.Context, tokenString string) (*authdomain.Claims, clubdomain.Actor, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Authenticate")
	defer span.End()

	if tokenString == "" {
		return nil, clubdomain.Actor{}, ErrMissingToken
	}

	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		s.logger.WarnContext(ctx, "Token validation failed",
			slog.Any("error", err),
		)
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return nil, clubdomain.Actor{}, ErrExpiredToken
		}
		return nil, clubdomain.Actor{}, ErrInvalidToken
	}

	actor, err := s.actors.ResolveActor(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.WarnContext(ctx, "Token subject not found",
				slog.String("user_id", claims.UserID.String()),
			)
			return nil, clubdomain.Actor{}, ErrUnknownUser
		}
		return nil, clubdomain.Actor{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	return claims, actor, nil
}
