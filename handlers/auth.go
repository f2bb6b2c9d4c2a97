package handlers

import (
	"net/http"

	"dietpix/models"
	"dietpix/services/journey"
	"dietpix/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// SignInHandler signs the client in and resumes whatever the flow parked
// while waiting for it.
func (h *AuthHandler) SignInHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, session.AuthResult{Error: true, Message: "Informe e-mail e senha válidos."})
		return
	}
	h.complete(c, client, client.Session.Login(c.Request.Context(), req.Email, req.Password))
}

// SignUpHandler creates the account and signs the client in.
func (h *AuthHandler) SignUpHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	var req models.SignUpData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, session.AuthResult{Error: true, Message: "Preencha nome, e-mail e uma senha com pelo menos 6 caracteres."})
		return
	}
	h.complete(c, client, client.Session.Register(c.Request.Context(), req))
}

func (h *AuthHandler) complete(c *gin.Context, client *journey.Client, res session.AuthResult) {
	if res.Error {
		c.JSON(http.StatusUnauthorized, res)
		return
	}
	if err := client.Flow.ResumePending(c.Request.Context()); err != nil {
		getLogger(c).Warn("could not resume parked action", zap.Error(err))
	}
	respondState(c, client, http.StatusOK, gin.H{
		"error": false,
		"user":  res.User,
		"token": res.Token,
	})
}

// SignOutHandler clears the session and all flow state.
func (h *AuthHandler) SignOutHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	route := client.Session.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"redirect": route})
}

// MeHandler reports the resolved session.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	client, ok := journeyOf(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"status":        client.Session.Status().String(),
		"loading":       client.Session.Loading(),
		"authenticated": client.Session.Authenticated(ctx),
		"user":          client.Session.User(ctx),
	})
}
