package handlers

import (
	"errors"
	"net/http"
	"time"

	"glassclass/models"
	"glassclass/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgUnavailable = "System error: the prediction model is unavailable."
	msgFailed      = "System error: the prediction could not be completed."
	historyTTL     = 30 * time.Second
)

type PagesHandler struct {
	predictions *services.PredictionService
	records     *services.RecordStore
	cache       *services.CacheService
	logger      *zap.Logger
}

func NewPagesHandler(predictions *services.PredictionService, records *services.RecordStore, cache *services.CacheService, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{predictions: predictions, records: records, cache: cache, logger: logger}
}

func (h *PagesHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", newFormView(nil, nil))
}

// Result accepts GET and POST: the query string for GET, the form body for POST.
func (h *PagesHandler) Result(c *gin.Context) {
	raw := measurementValues(c)

	out, err := h.predictions.Predict(c.Request.Context(), raw)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			c.HTML(http.StatusOK, "home.html", newFormView(verr.Input, verr.Fields))
		case errors.Is(err, services.ErrSystemUnavailable):
			c.HTML(http.StatusServiceUnavailable, "result.html", ResultView{Title: "Result", Error: msgUnavailable})
		default:
			_ = c.Error(err)
			h.logger.Error("prediction failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "result.html", ResultView{Title: "Result", Error: msgFailed})
		}
		return
	}

	c.HTML(http.StatusOK, "result.html", ResultView{Title: "Result", Classification: out.Classification})
}

func (h *PagesHandler) Data(c *gin.Context) {
	ctx := c.Request.Context()

	rows, generation, hit := h.cache.CachedHistory(ctx)
	if !hit {
		var err error
		rows, err = h.records.ListAll(ctx)
		if err != nil {
			_ = c.Error(err)
			c.HTML(http.StatusInternalServerError, "result.html", ResultView{Title: "Prediction history", Error: msgFailed})
			return
		}
		if err := h.cache.StoreHistory(ctx, generation, rows, historyTTL); err != nil {
			h.logger.Warn("history cache write failed", zap.Error(err))
		}
	}

	c.HTML(http.StatusOK, "data.html", HistoryView{Title: "Prediction history", Records: rows})
}

// measurementValues picks the nine fields out of the query (GET) or form body (POST).
func measurementValues(c *gin.Context) map[string]string {
	raw := make(map[string]string, len(models.FieldNames))
	if c.Request.Method == http.MethodPost {
		for _, name := range models.FieldNames {
			if v, ok := c.GetPostForm(name); ok {
				raw[name] = v
			}
		}
		return raw
	}
	for _, name := range models.FieldNames {
		if v, ok := c.GetQuery(name); ok {
			raw[name] = v
		}
	}
	return raw
}
