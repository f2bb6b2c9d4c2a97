package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dietpix/models"
	"dietpix/services/export"
	"dietpix/services/flow"
	"dietpix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PDFRenderer prints an unlocked plan.
type PDFRenderer interface {
	PDF(ctx context.Context, plan models.DietPlan, owner string) ([]byte, error)
}

type FlowHandler struct {
	pdf PDFRenderer
}

func NewFlowHandler(pdf PDFRenderer) *FlowHandler {
	return &FlowHandler{pdf: pdf}
}

// FlowStateHandler advances the loading step if due and returns the snapshot.
// Views poll it while loading.
func (h *FlowHandler) FlowStateHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.Advance(c.Request.Context()))
}

func (h *FlowHandler) SaveFormHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var form models.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Dados do formulário inválidos", err.Error())
		return
	}
	respondFlow(c, client, client.Flow.SaveForm(c.Request.Context(), form))
}

func (h *FlowHandler) SubmitHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var form models.FormData
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Dados do formulário inválidos", err.Error())
		return
	}
	res, err := client.Flow.Submit(c.Request.Context(), form)
	if err != nil {
		respondFlow(c, client, err)
		return
	}
	status := http.StatusOK
	if !res.Accepted {
		status = http.StatusUnprocessableEntity
	}
	respondState(c, client, status, gin.H{"result": res})
}

func (h *FlowHandler) AdvanceHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.Advance(c.Request.Context()))
}

func (h *FlowHandler) UnlockHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.Unlock(c.Request.Context()))
}

func (h *FlowHandler) ConfirmPaymentHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.ConfirmPayment(c.Request.Context()))
}

func (h *FlowHandler) CancelPaymentHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.CancelPayment(c.Request.Context()))
}

func (h *FlowHandler) PaymentCopyHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	payload, err := client.Flow.PaymentCopy(c.Request.Context())
	if err != nil {
		respondFlow(c, client, err)
		return
	}
	client.Toasts.Notify(models.Toast{Kind: models.ToastSuccess, Message: "Código PIX copiado!"})
	c.JSON(http.StatusOK, gin.H{"pixCode": payload, "toasts": client.Toasts.Drain()})
}

func (h *FlowHandler) RegenerateHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Requisição inválida", err.Error())
		return
	}
	respondFlow(c, client, client.Flow.Regenerate(c.Request.Context(), req.Feedback))
}

func (h *FlowHandler) ResetHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	respondFlow(c, client, client.Flow.Reset(c.Request.Context()))
}

// PDFHandler exports the unlocked plan.
func (h *FlowHandler) PDFHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	plan, err := client.Flow.ExportablePlan(ctx)
	if err != nil {
		respondFlow(c, client, err)
		return
	}

	owner := ""
	if u := client.Session.User(ctx); u != nil {
		owner = u.Name
	}
	doc, err := h.pdf.PDF(ctx, *plan, owner)
	if err != nil {
		if errors.Is(err, export.ErrEmptyPlan) {
			respondFlow(c, client, flow.ErrNoPlan)
			return
		}
		getLogger(c).Error("pdf export failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Não foi possível gerar o PDF", "Tente novamente em instantes.")
		return
	}

	name := "dieta"
	if plan.DietID != "" {
		name += "-" + plan.DietID
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
	c.Data(http.StatusOK, "application/pdf", doc)
}
