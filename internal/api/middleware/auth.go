package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/myday-api/internal/api/shared"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/redact"
	"github.com/phrazzld/myday-api/internal/service"
	"github.com/phrazzld/myday-api/internal/service/auth"
)

// AuthMiddleware resolves the caller identity from a bearer token.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Identify stores a service.Caller in the request context. It never rejects a
// request; a token that fails validation yields an anonymous caller.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := m.resolve(r)
		next.ServeHTTP(w, r.WithContext(shared.WithCaller(r.Context(), caller)))
	})
}

func (m *AuthMiddleware) resolve(r *http.Request) service.Caller {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return service.Anonymous()
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		log := logger.FromContext(r.Context())
		switch {
		case errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrTokenNotYetValid),
			errors.Is(err, auth.ErrWrongTokenType):
			log.Debug("ignoring unusable bearer token", slog.String("error", err.Error()))
		default:
			log.Error("failed to validate token", slog.String("error", redact.Error(err)))
		}
		return service.Anonymous()
	}

	return service.Authenticated(claims.UserID)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
