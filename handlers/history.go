package handlers

import (
	"context"
	"net/http"

	"dietpix/models"
	"dietpix/services/backend"
	"dietpix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HistoryAPI interface {
	DietHistory(ctx context.Context, token string) ([]models.DietHistoryEntry, error)
}

type HistoryHandler struct {
	api HistoryAPI
}

func NewHistoryHandler(api HistoryAPI) *HistoryHandler {
	return &HistoryHandler{api: api}
}

// HistoryHandler lists the past diets of the signed in user.
func (h *HistoryHandler) HistoryHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	list, err := h.api.DietHistory(ctx, client.Session.Token(ctx))
	if err != nil {
		if backend.IsUnauthorized(err) {
			client.Session.SignOut(ctx)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Sua sessão expirou. Faça login novamente.", "needsAuth": true})
			return
		}
		getLogger(c).Warn("diet history failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Não foi possível carregar seu histórico", "Tente novamente em instantes.")
		return
	}
	if list == nil {
		list = []models.DietHistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"diets": list})
}
