package handlers

import (
	"errors"
	"net/http"

	"glassclass/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictionAPIHandler struct {
	predictions *services.PredictionService
	records     *services.RecordStore
	logger      *zap.Logger
}

func NewPredictionAPIHandler(predictions *services.PredictionService, records *services.RecordStore, logger *zap.Logger) *PredictionAPIHandler {
	return &PredictionAPIHandler{predictions: predictions, records: records, logger: logger}
}

func (h *PredictionAPIHandler) List(c *gin.Context) {
	q := parsePageQuery(c)

	rows, err := h.records.ListPage(c.Request.Context(), q.limit, q.before)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, newRecordPage(rows, q.limit))
}

func (h *PredictionAPIHandler) Create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}

	out, err := h.predictions.Predict(c.Request.Context(), services.RawFromJSON(body))
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid input", "fields": verr.Fields})
		case errors.Is(err, services.ErrSystemUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgUnavailable})
		default:
			_ = c.Error(err)
			h.logger.Error("prediction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgFailed})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"class_id":       out.ClassID,
		"classification": out.Classification,
		"data":           out.Record,
	})
}
