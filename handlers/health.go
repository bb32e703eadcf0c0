package handlers

import (
	"net/http"

	"glassclass/services"

	"github.com/gin-gonic/gin"
)

func Health(predictions *services.PredictionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "UP",
			"model_ready": predictions.Ready(),
		})
	}
}
