package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// sessionTTL is how long an anonymous session token stays valid. Votes
// from an expired session simply start a new identity.
const sessionTTL = 180 * 24 * time.Hour

// Claims carries the anonymous session identity.
type Claims struct {
	UserID    string `json:"user_id"`
	Anonymous bool   `json:"anon"`
	jwt.RegisteredClaims
}

// Manager issues and validates anonymous session tokens.
type Manager struct {
	secret []byte
}

// NewManager creates a token manager signing with the given secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Session is the issued token plus the identity it encodes.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// IssueAnonymous mints a fresh anonymous identity and its token.
func (m *Manager) IssueAnonymous() (*Session, error) {
	userID := "anon_" + uuid.NewString()
	claims := Claims{
		UserID:    userID,
		Anonymous: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UserID: userID}, nil
}

// ValidateToken parses and verifies a session token.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

type contextKey struct{}

var userIDKey contextKey

// SessionCookie is the cookie name checked when no Authorization header
// is sent, for server-rendered pages that cannot set headers.
const SessionCookie = "horoscopo_session"

// Middleware extracts the session identity from a Bearer token or the
// session cookie when one is present. Requests without a valid token pass
// through anonymous; handlers that need an identity check UserIDFrom
// themselves.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserIDFrom returns the session identity set by Middleware, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
