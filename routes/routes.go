package routes

import (
	"time"

	"dietpix/handlers"
	"dietpix/middleware"
	"dietpix/services/journey"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the session endpoints.
func RegisterAuthRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", hb.SignInHandler)
		auth.POST("/signup", hb.SignUpHandler)
		auth.POST("/forgot-password", hb.ForgotPasswordHandler)
		auth.POST("/reset-password", hb.ResetPasswordHandler)
		auth.POST("/signout", hb.SignOutHandler)
		auth.GET("/me", hb.MeHandler)
	}
}

// RegisterFlowRoutes registers the diet journey commands.
func RegisterFlowRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	f := r.Group("/flow")
	{
		f.GET("", hb.FlowStateHandler)
		f.PUT("/form", hb.SaveFormHandler)
		f.POST("/submit", hb.SubmitHandler)
		f.POST("/advance", hb.AdvanceHandler)
		f.POST("/unlock", hb.UnlockHandler)
		f.POST("/confirm-payment", hb.ConfirmPaymentHandler)
		f.POST("/cancel-payment", hb.CancelPaymentHandler)
		f.GET("/payment/copy", hb.PaymentCopyHandler)
		f.POST("/regenerate", hb.RegenerateHandler)
		f.POST("/reset", hb.ResetHandler)
		f.GET("/pdf", hb.PDFHandler)
	}
}

// RegisterProfileRoutes registers endpoints that need a signed in client.
func RegisterProfileRoutes(r *gin.RouterGroup, hb *handlers.HandlerBundle) {
	diets := r.Group("/diets")
	{
		diets.Use(middleware.RequireSession())
		diets.GET("/history", hb.HistoryHandler)
	}
}

// RegisterProxyRoutes registers the same-origin payment status proxy.
func RegisterProxyRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/payment-status/:orderId", hb.PaymentStatusProxyHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, reg *journey.Registry, allowedOrigins []string, secureCookie bool) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.ClientHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterProxyRoutes(r, hb)

	bff := r.Group("/bff")
	bff.Use(middleware.ClientIDMiddleware(secureCookie))
	bff.Use(middleware.JourneyMiddleware(reg))
	RegisterAuthRoutes(bff, hb)
	RegisterFlowRoutes(bff, hb)
	RegisterProfileRoutes(bff, hb)
}
