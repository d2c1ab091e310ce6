package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Storefront"},
		Session: config.SessionConfig{
			Secret:     "0123456789abcdef0123456789abcdef",
			CookieName: "session_token",
			TTL:        time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitPerMinute: 60,
			RateLimitBurst:     2,
			CORSAllowedOrigins: []string{"http://localhost:3000", "*.example.com"},
			CORSAllowedMethods: []string{"GET", "POST"},
			CORSAllowedHeaders: []string{"Content-Type"},
		},
	}
}

func sessionRouter(cfg *config.Config, sessions *cart.Sessions) *gin.Engine {
	r := gin.New()
	r.Use(Session(cfg, auth.NewSessionTokenManager(cfg), sessions, quietLogger()))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := GetSessionID(c)
		store, err := GetCartStore(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": id, "items": len(store.State().Items)})
	})
	return r
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	cfg := testConfig()
	sessions := cart.NewSessions(time.Hour)
	r := sessionRouter(cfg, sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, sessions.Len())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Empty(t, w2.Result().Cookies(), "a valid cookie is not reissued")
	assert.Equal(t, 1, sessions.Len())
}

func TestSession_ForgedCookieStartsNewSession(t *testing.T) {
	cfg := testConfig()
	sessions := cart.NewSessions(time.Hour)
	r := sessionRouter(cfg, sessions)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "forged"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestSession_RefreshesAgingCookie(t *testing.T) {
	cfg := testConfig()
	sessions := cart.NewSessions(time.Hour)
	r := sessionRouter(cfg, sessions)

	issued := time.Now().Add(-40 * time.Minute)
	claims := &auth.SessionClaims{
		TokenType: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "aging-session",
			Issuer:    cfg.App.Name,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		},
	}
	old, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Session.Secret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: old})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "aging-session", "the session is kept")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, old, cookies[0].Value)

	refreshed, err := auth.NewSessionTokenManager(cfg).Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "aging-session", refreshed.SessionID())
	assert.True(t, refreshed.ExpiresAt.After(issued.Add(time.Hour)))
}

func TestMemoryLimiter(t *testing.T) {
	l := NewMemoryLimiter(60, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _, _ := l.Allow(ctx, "1.1.1.1")
	assert.True(t, ok)
	ok, _, _ = l.Allow(ctx, "1.1.1.1")
	assert.True(t, ok)
	ok, _, _ = l.Allow(ctx, "1.1.1.1")
	assert.False(t, ok, "burst exhausted")

	ok, _, _ = l.Allow(ctx, "2.2.2.2")
	assert.True(t, ok, "clients are limited separately")

	now = now.Add(time.Second)
	ok, _, _ = l.Allow(ctx, "1.1.1.1")
	assert.True(t, ok, "one token refills per second at 60/min")
}

func TestRateLimit_Rejects(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.Use(RateLimit(cfg, NewMemoryLimiter(60, 1), quietLogger()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(testConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders("Storefront API"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "Storefront API", w.Header().Get("Server"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextKeyRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Body.String())
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeoutSkipsStreams(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Millisecond, "/events"))
	r.GET("/events", func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": hasDeadline})
	})
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.JSONEq(t, `{"deadline":false}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}
