// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

const (
	ContextKeySessionID = "session_id"
	ContextKeyCartStore = "cart_store"
)

// Session resolves the session cookie to a cart store. A missing, expired
// or forged cookie starts a new session. The cookie is re-issued once its
// token is past half its lifetime.
func Session(cfg *config.Config, tokens *auth.SessionTokenManager, sessions *cart.Sessions, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		refresh := false
		if raw, err := c.Cookie(cfg.Session.CookieName); err == nil {
			if claims, err := tokens.Parse(raw); err == nil {
				sessionID = claims.SessionID()
				refresh = tokens.NeedsRefresh(claims)
			} else {
				logger.WithError(err).Debug("Discarding session cookie")
			}
		}

		if sessionID == "" {
			sessionID = auth.NewSessionID()
			refresh = true
		}

		// New sessions and tokens past half their lifetime get a fresh cookie
		if refresh {
			token, err := tokens.Issue(sessionID)
			if err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to start session",
				})
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Session.CookieName, token, int(tokens.TTL().Seconds()), "/", "", cfg.Session.SecureCookie, true)
		}

		store, err := sessions.Open(sessionID)
		if err != nil {
			logger.WithError(err).Error("Failed to open cart session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to open cart",
			})
			return
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Set(ContextKeyCartStore, store)
		c.Request = c.Request.WithContext(cart.WithStore(c.Request.Context(), store))

		c.Next()
	}
}

// GetSessionID returns the session id set by Session
func GetSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeySessionID)
	return id, id != ""
}

// GetCartStore returns the cart store set by Session
func GetCartStore(c *gin.Context) (*cart.Store, error) {
	return cart.StoreFromContext(c.Request.Context())
}
