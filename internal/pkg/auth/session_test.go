package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func testManager() *SessionTokenManager {
	cfg := &config.Config{
		App:     config.AppConfig{Name: "Storefront"},
		Session: config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", TTL: time.Hour},
	}
	return NewSessionTokenManager(cfg)
}

func TestSessionToken_RoundTrip(t *testing.T) {
	m := testManager()
	sid := NewSessionID()

	token, err := m.Issue(sid)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sid, claims.SessionID())
	assert.Equal(t, "Storefront", claims.Issuer)
}

func TestSessionToken_Expired(t *testing.T) {
	m := testManager()
	token, err := m.Issue("abc")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionToken_RejectsTampering(t *testing.T) {
	m := testManager()
	token, err := m.Issue("abc")
	require.NoError(t, err)

	other := testManager()
	other.secret = []byte("another-secret-another-secret-1234")
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionToken_RejectsOtherTokenTypes(t *testing.T) {
	m := testManager()
	claims := &SessionClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "abc",
			Issuer:    "Storefront",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestSessionToken_IssueRequiresID(t *testing.T) {
	_, err := testManager().Issue("")
	assert.Error(t, err)
}

func TestSessionToken_NeedsRefresh(t *testing.T) {
	m := testManager()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	token, err := m.Issue("abc")
	require.NoError(t, err)
	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.False(t, m.NeedsRefresh(claims))

	m.now = func() time.Time { return start.Add(29 * time.Minute) }
	assert.False(t, m.NeedsRefresh(claims))

	m.now = func() time.Time { return start.Add(31 * time.Minute) }
	assert.True(t, m.NeedsRefresh(claims))

	assert.True(t, m.NeedsRefresh(&SessionClaims{}), "tokens without iat are refreshed")
}
