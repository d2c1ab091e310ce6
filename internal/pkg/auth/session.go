// internal/pkg/auth/session.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
)

const tokenTypeSession = "session"

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims identifies an anonymous browsing session. The session id is
// carried as the token ID.
type SessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionID returns the session the claims belong to
func (c *SessionClaims) SessionID() string {
	return c.ID
}

// SessionTokenManager signs and verifies session cookies
type SessionTokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionTokenManager creates a new session token manager
func NewSessionTokenManager(cfg *config.Config) *SessionTokenManager {
	return &SessionTokenManager{
		secret: []byte(cfg.Session.Secret),
		issuer: cfg.App.Name,
		ttl:    cfg.Session.TTL,
		now:    time.Now,
	}
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.NewString()
}

// TTL returns how long an issued token stays valid
func (m *SessionTokenManager) TTL() time.Duration {
	return m.ttl
}

// NeedsRefresh reports whether claims are past half their lifetime. Active
// sessions get a fresh token before the old one runs out.
func (m *SessionTokenManager) NeedsRefresh(claims *SessionClaims) bool {
	if claims.IssuedAt == nil {
		return true
	}
	return m.now().Sub(claims.IssuedAt.Time) >= m.ttl/2
}

// Issue signs a token for sessionID
func (m *SessionTokenManager) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}

	now := m.now().UTC()

	claims := &SessionClaims{
		TokenType: tokenTypeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   "session:" + sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies a token and returns its claims
func (m *SessionTokenManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSessionToken
	}
	if claims.TokenType != tokenTypeSession || claims.ID == "" {
		return nil, fmt.Errorf("%w: not a session token", ErrInvalidSessionToken)
	}

	return claims, nil
}
