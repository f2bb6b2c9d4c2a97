package handlers

import (
	"net/http"

	"dietpix/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency checks.
func HealthHandler(c *gin.Context) {
	health := utils.GetHealthStatus()
	status := "ok"
	if !health.Store {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"message": "dietpix",
		"health":  health,
	})
}
