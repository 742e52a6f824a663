package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"xmcp/server/internal/observability"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// RequestIDKey is the context key for the request tracing ID.
	RequestIDKey ContextKey = "requestID"
	// CallerKey is the context key for the caller identity (JWT subject
	// or remote host when auth is disabled).
	CallerKey ContextKey = "caller"
)

// GetRequestID returns the request tracing ID from context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// GetCaller returns the caller identity from context.
func GetCaller(ctx context.Context) string {
	c, _ := ctx.Value(CallerKey).(string)
	return c
}

// Authenticator optionally verifies an inbound HS256 bearer JWT.
// With an empty secret the endpoint is open (local/stdio-style use) and
// callers are identified by remote host only.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator with the given shared secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Authenticate is HTTP middleware that stamps a request ID and, when a
// secret is configured, rejects requests without a valid bearer token.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		caller := remoteHost(r)
		if len(a.secret) > 0 {
			subject, err := a.verify(r)
			if err != nil {
				observability.LogError("auth", err)
				writeAuthError(w, "UNAUTHORIZED", "Missing or invalid bearer token")
				return
			}
			if subject != "" {
				caller = subject
			}
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = context.WithValue(ctx, CallerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) verify(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", errors.New("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	subject, _ := token.Claims.GetSubject()
	return subject, nil
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

func remoteHost(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
