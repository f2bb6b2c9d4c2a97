package middleware

import (
	"net/http"

	"dietpix/services/journey"
	"dietpix/utils"

	"github.com/gin-gonic/gin"
)

// JourneyKey is the gin context key holding the acquired *journey.Client.
const JourneyKey = "journey"

// JourneyMiddleware locks the journey of the calling client for the whole
// request and resolves its session first.
func JourneyMiddleware(reg *journey.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, release, err := reg.Acquire(c.Request.Context(), ClientID(c))
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Cliente não identificado", err.Error())
			c.Abort()
			return
		}
		defer release()

		c.Set(JourneyKey, client)
		c.Next()
	}
}

// Journey returns the journey acquired by JourneyMiddleware.
func Journey(c *gin.Context) *journey.Client {
	if v, ok := c.Get(JourneyKey); ok {
		if client, ok := v.(*journey.Client); ok {
			return client
		}
	}
	return nil
}

// RequireSession rejects requests whose client is not signed in.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := Journey(c)
		if client == nil || !client.Session.Authenticated(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "Faça login para continuar.",
				"needsAuth": true,
			})
			return
		}
		c.Next()
	}
}
