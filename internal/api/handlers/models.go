package handlers

import (
	"net/http"

	"econsim/internal/analysis"
	"econsim/internal/api/models"
	"econsim/internal/config"

	"github.com/gin-gonic/gin"
)

// ListModels handles GET /api/v1/models
func ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, models.ModelsResponse{
		Models:  config.Catalog(),
		Metrics: analysis.Metrics(),
	})
}
