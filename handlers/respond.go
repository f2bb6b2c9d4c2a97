package handlers

import (
	"errors"
	"net/http"

	"dietpix/middleware"
	"dietpix/services/flow"
	"dietpix/services/journey"
	"dietpix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// journeyOf returns the journey acquired by the middleware, answering 500
// when the route was wired without it.
func journeyOf(c *gin.Context) (*journey.Client, bool) {
	client := middleware.Journey(c)
	if client == nil {
		getLogger(c).Error("journey missing from context", zap.String("path", c.FullPath()))
		utils.JSONError(c, http.StatusInternalServerError, "Erro interno do servidor", "")
		return nil, false
	}
	return client, true
}

// respondState answers with the flow snapshot, the toasts raised during the
// request and any extra fields.
func respondState(c *gin.Context, client *journey.Client, status int, extra gin.H) {
	body := gin.H{
		"state":  client.Flow.Snapshot(c.Request.Context()),
		"toasts": client.Toasts.Drain(),
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

var flowErrors = []struct {
	err     error
	status  int
	message string
}{
	{flow.ErrAuthRequired, http.StatusUnauthorized, "Faça login para continuar."},
	{flow.ErrLocked, http.StatusForbidden, "Desbloqueie sua dieta para continuar."},
	{flow.ErrNoOrder, http.StatusConflict, "Nenhum pagamento em andamento."},
	{flow.ErrNoPlan, http.StatusNotFound, "Nenhuma dieta encontrada."},
	{flow.ErrWrongStep, http.StatusConflict, "Ação indisponível nesta etapa."},
	{flow.ErrEmptyFeedback, http.StatusBadRequest, "Descreva o que deseja mudar na dieta."},
}

// respondFlow maps the result of a flow command to a response.
func respondFlow(c *gin.Context, client *journey.Client, err error) {
	if err == nil {
		respondState(c, client, http.StatusOK, nil)
		return
	}
	for _, fe := range flowErrors {
		if errors.Is(err, fe.err) {
			extra := gin.H{"message": fe.message}
			if fe.err == flow.ErrAuthRequired {
				extra["needsAuth"] = true
			}
			respondState(c, client, fe.status, extra)
			return
		}
	}
	getLogger(c).Error("flow command failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Erro interno do servidor", "Não foi possível salvar seu progresso.")
}
