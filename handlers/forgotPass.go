package handlers

import (
	"net/http"

	"dietpix/models"
	"dietpix/services/session"

	"github.com/gin-gonic/gin"
)

func (h *AuthHandler) ForgotPasswordHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, session.MessageResult{Error: true, Message: "Informe um e-mail válido."})
		return
	}
	res := client.Session.ForgotPassword(c.Request.Context(), req.Email)
	c.JSON(messageStatus(res), res)
}

func (h *AuthHandler) ResetPasswordHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, session.MessageResult{Error: true, Message: "A nova senha deve ter pelo menos 6 caracteres."})
		return
	}
	res := client.Session.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	c.JSON(messageStatus(res), res)
}

func messageStatus(res session.MessageResult) int {
	if res.Error {
		return http.StatusBadRequest
	}
	return http.StatusOK
}
