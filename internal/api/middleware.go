package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/auth"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	// ctxKeyRequestID is the context key for the request ID.
	ctxKeyRequestID contextKey = "request_id"

	// ctxKeyClaims is the context key for the authenticated token claims.
	ctxKeyClaims contextKey = "claims"
)

// requestIDMiddleware generates a unique request ID for each request.
// If the client sends an X-Request-ID header, it is used; otherwise one is generated.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	})
}

// recoveryMiddleware catches panics in handlers and returns a 500 response.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered in HTTP handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", r.Context().Value(ctxKeyRequestID),
				)
				writeInternalError(w, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles Cross-Origin Resource Sharing headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", joinOrDefault(s.cfg.CORS.AllowedMethods, "GET, POST, OPTIONS"))
			w.Header().Set("Access-Control-Allow-Headers", joinOrDefault(s.cfg.CORS.AllowedHeaders, "Authorization, Content-Type, X-Request-ID"))
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bodySizeLimitMiddleware caps incoming request bodies at the configured
// submission payload limit. Oversized bodies fail inside the handler's
// decode with a MaxBytesError, reported as 413.
func (s *Server) bodySizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.ingestCfg.MaxPayloadBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates bearer tokens on protected routes. The token is
// taken from the Authorization header, or from the token query parameter
// for WebSocket clients that cannot set headers.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			writeUnauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.ParseToken(tokenString, s.secCfg.JWT.Secret)
		if err != nil {
			writeUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireScope rejects requests whose token scope does not cover the
// required one. Must run after authMiddleware.
func (s *Server) requireScope(required auth.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil || !claims.Scope.Allows(required) {
				writeForbidden(w, "insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// claimsFromContext returns the authenticated claims, or nil outside
// authMiddleware.
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ctxKeyClaims).(*auth.Claims)
	return claims
}

// bearerToken extracts the token from the Authorization header or the
// token query parameter.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// isAllowedOrigin checks if the origin is in the allowed list.
// An empty list allows all origins (dev mode).
func (s *Server) isAllowedOrigin(origin string) bool {
	if len(s.cfg.CORS.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.cfg.CORS.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// requestIDBytes is the number of random bytes used for request IDs.
const requestIDBytes = 8

// generateRequestID creates a random hex request ID.
func generateRequestID() string {
	b := make([]byte, requestIDBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}

// joinOrDefault joins a string slice with ", " or returns the default if empty.
func joinOrDefault(values []string, defaultVal string) string {
	if len(values) == 0 {
		return defaultVal
	}
	result := values[0]
	for _, v := range values[1:] {
		result += ", " + v
	}
	return result
}
