package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error answered by the BFF. Message is
// shown to the user as is; Details is a hint for the next step.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var panicResponse = ErrorResponse{
	Message: "Erro interno do servidor",
	Details: "Seu progresso foi salvo. Recarregue a página para continuar.",
}

// ErrorHandler recovers a panicking handler and answers 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			GetLogger().Error("handler panicked",
				zap.Any("panic", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, panicResponse)
		}()
		c.Next()
	}
}

// JSONError answers status with an ErrorResponse and logs it at warn.
func JSONError(c *gin.Context, status int, message, details string) {
	GetLogger().Warn("request failed",
		zap.Int("status", status),
		zap.String("message", message),
		zap.String("details", details),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}
