package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"giventake/internal/auth"
	"giventake/pkg/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextKeyClaims contextKey = "claims"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// StripTrailingSlash serves /api/foo/ as /api/foo.
func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" && strings.HasSuffix(path, "/") {
			r.URL.Path = strings.TrimRight(path, "/")
			if r.URL.RawPath != "" {
				r.URL.RawPath = strings.TrimRight(r.URL.RawPath, "/")
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth checks the bearer session token and puts its claims on the
// request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			s.writeMessage(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				s.writeJSON(w, http.StatusUnauthorized, &errorResponse{
					Message: "Token expired",
					Code:    "TOKEN_EXPIRED",
				})
				return
			}

			s.logger.WithError(err).Debug("rejected session token")
			s.writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":   claims.UserID,
			"user_type": claims.UserType,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole only lets through callers whose user type is in roles. It
// must run after RequireAuth.
func (s *Service) RequireRole(roles ...types.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFromContext(r.Context())
			if !ok || !slices.Contains(roles, claims.UserType) {
				s.writeMessage(w, http.StatusForbidden, "Access forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(contextKeyClaims).(*auth.Claims)
	return claims, ok
}
