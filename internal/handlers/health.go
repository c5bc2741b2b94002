package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"rakitin/internal/models"
)

// HealthHandler reports liveness. It does not touch the document store.
func HealthHandler(c *gin.Context) {
	response := models.HealthResponse{
		Status: "ok",
	}
	c.JSON(http.StatusOK, response)
}
