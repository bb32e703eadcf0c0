package handlers

import (
	"fmt"
	"net/http"

	"glassclass/config"
	"glassclass/middleware"
	"glassclass/services"
	"glassclass/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Dependencies struct {
	Predictions *services.PredictionService
	Records     *services.RecordStore
	Cache       *services.CacheService
	CORS        config.CORSConfig
	Logger      *zap.Logger
}

func NewRouter(d Dependencies) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger.Named("http")),
		middleware.SetupCORS(d.CORS),
	)
	router.SetHTMLTemplate(tmpl)

	pages := NewPagesHandler(d.Predictions, d.Records, d.Cache, d.Logger)
	export := NewExportHandler(d.Records)
	api := NewPredictionAPIHandler(d.Predictions, d.Records, d.Logger)

	router.GET("/", pages.Home)
	router.GET("/result", pages.Result)
	router.POST("/result", pages.Result)
	router.GET("/data", pages.Data)
	router.GET("/export", export.ExportCSV)

	router.GET("/health", Health(d.Predictions))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/live", LiveWebSocket(d.Cache, middleware.OriginChecker(d.CORS), d.Logger))

	apiGroup := router.Group("/api")
	apiGroup.GET("/predictions", api.List)
	apiGroup.POST("/predictions", api.Create)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router, nil
}
