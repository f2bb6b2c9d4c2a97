package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// ClientCookie identifies a browser across requests.
	ClientCookie = "dietpix_client"
	// ClientHeader lets non-browser callers pick their client id.
	ClientHeader = "X-Client-ID"
	// ClientIDKey is the gin context key holding the client id.
	ClientIDKey = "clientID"

	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// ClientIDMiddleware resolves the client id from the cookie or header, and
// issues a new one when neither carries a valid UUID.
func ClientIDMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ClientHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = ""
		}
		if id == "" {
			if cookie, err := c.Cookie(ClientCookie); err == nil {
				if _, err := uuid.Parse(cookie); err == nil {
					id = cookie
				}
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientCookie, id, clientCookieMaxAge, "/", "", secureCookie, true)
		c.Set(ClientIDKey, id)
		if l, ok := c.Get("logger"); ok {
			if logger, ok := l.(*zap.Logger); ok {
				c.Set("logger", logger.With(zap.String("clientID", id)))
			}
		}
		c.Next()
	}
}

// ClientID returns the id set by ClientIDMiddleware.
func ClientID(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}
