package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Forwarder performs the raw upstream call.
type Forwarder interface {
	Forward(ctx context.Context, path, authorization string) (int, string, []byte, error)
}

type ProxyHandler struct {
	upstream Forwarder
}

func NewProxyHandler(upstream Forwarder) *ProxyHandler {
	return &ProxyHandler{upstream: upstream}
}

// PaymentStatusProxyHandler relays /api/payment-status/:orderId to the
// backend with the caller's Authorization header, passing status and body
// through untouched.
func (h *ProxyHandler) PaymentStatusProxyHandler(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token de autorização não fornecido"})
		return
	}

	orderID := c.Param("orderId")
	status, contentType, body, err := h.upstream.Forward(c.Request.Context(), "/api/payment-status/"+url.PathEscape(orderID), auth)
	if err != nil {
		getLogger(c).Error("payment status proxy failed", zap.String("orderID", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao verificar status do pagamento"})
		return
	}
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(status, contentType, body)
}
