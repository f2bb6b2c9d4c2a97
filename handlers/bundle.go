package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Auth endpoints
	SignInHandler         gin.HandlerFunc
	SignUpHandler         gin.HandlerFunc
	ForgotPasswordHandler gin.HandlerFunc
	ResetPasswordHandler  gin.HandlerFunc
	SignOutHandler        gin.HandlerFunc
	MeHandler             gin.HandlerFunc

	// Flow endpoints
	FlowStateHandler      gin.HandlerFunc
	SaveFormHandler       gin.HandlerFunc
	SubmitHandler         gin.HandlerFunc
	AdvanceHandler        gin.HandlerFunc
	UnlockHandler         gin.HandlerFunc
	ConfirmPaymentHandler gin.HandlerFunc
	CancelPaymentHandler  gin.HandlerFunc
	PaymentCopyHandler    gin.HandlerFunc
	RegenerateHandler     gin.HandlerFunc
	ResetHandler          gin.HandlerFunc
	PDFHandler            gin.HandlerFunc

	// Profile endpoints
	HistoryHandler gin.HandlerFunc

	// Same-origin proxy
	PaymentStatusProxyHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
