package authhandlers

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	authservice "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/auth/domain"
	clubdomain "github.com/Black-And-White-Club/pathfinder-club/app/modules/club/domain"
	"github.com/Black-And-White-Club/pathfinder-club/internal/httpserver"
	"golang.org/x/time/rate"
)

const (
	// Stale clients are swept once the table grows past sweepAt entries.
	sweepAt   = 500
	idleAfter = 10 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	every   rate.Limit
	burst   int
}

func NewIPRateLimiter(every rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*clientBucket),
		every:   every,
		burst:   burst,
	}
}

// Allow takes a token from addr's bucket.
func (l *IPRateLimiter) Allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.clients) > sweepAt {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > idleAfter {
				delete(l.clients, k)
			}
		}
	}

	c, ok := l.clients[addr]
	if !ok {
		c = &clientBucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimitMiddleware answers 429 with a JSON error body once a client
// address runs out of tokens.
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				addr = r.RemoteAddr
			}
			if !limiter.Allow(addr) {
				w.Header().Set("Retry-After", "1")
				httpserver.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware echoes allowed origins and short-circuits preflight
// requests. An empty allow list adds no headers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				h := w.Header()
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Middleware authenticates the bearer token and stores the claims and the
// resolved actor on the request context. EventSource clients cannot set
// headers, so an access_token query parameter is accepted as a fallback.
func Middleware(service authservice.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, actor, err := service.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				if !isAuthFailure(err) {
					logger.ErrorContext(r.Context(), "Authentication lookup failed", slog.Any("error", err))
					httpserver.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
					return
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="pathfinder-club"`)
				httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
				return
			}

			ctx := authdomain.WithClaims(r.Context(), claims)
			ctx = authdomain.WithActor(ctx, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects callers without an instructor, admin or owner role.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := authdomain.ActorFromContext(r.Context())
		if !ok {
			httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": authservice.ErrMissingToken.Error()})
			return
		}
		if !actor.HasClub() || !actor.Role.IsStaff() {
			httpserver.JSON(w, http.StatusForbidden, map[string]string{"error": "staff role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentActor returns the authenticated caller, writing a 401 when the
// request did not pass through Middleware.
func CurrentActor(w http.ResponseWriter, r *http.Request) (clubdomain.Actor, bool) {
	actor, ok := authdomain.ActorFromContext(r.Context())
	if !ok {
		httpserver.JSON(w, http.StatusUnauthorized, map[string]string{"error": authservice.ErrMissingToken.Error()})
	}
	return actor, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

func isAuthFailure(err error) bool {
	return errors.Is(err, authservice.ErrMissingToken) ||
		errors.Is(err, authservice.ErrInvalidToken) ||
		errors.Is(err, authservice.ErrExpiredToken) ||
		errors.Is(err, authservice.ErrUnknownUser)
}
