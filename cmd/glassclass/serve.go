package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glassclass/database"
	"glassclass/handlers"
	"glassclass/ingest"
	"glassclass/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web application",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(a.cfg.Server.Mode)

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	defer database.Close(db)

	cache, err := services.NewCacheService(a.cfg.Redis, a.logger.Named("cache"))
	if err != nil {
		a.logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		cache = services.NewDisabledCache(a.logger.Named("cache"))
	}
	defer cache.Close()

	predictions := a.predictionService(db, cache)
	if !predictions.Ready() {
		a.logger.Error("model artifacts not loaded; predictions will be refused",
			zap.String("scaler", a.cfg.Model.ScalerPath),
			zap.String("classifier", a.cfg.Model.ClassifierPath))
	}

	router, err := handlers.NewRouter(handlers.Dependencies{
		Predictions: predictions,
		Records:     services.NewRecordStore(db),
		Cache:       cache,
		CORS:        a.cfg.CORS,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if a.cfg.MQTT.URL != "" {
		ingestCtx, stopIngest := context.WithCancel(ctx)
		defer stopIngest()
		ingestor := ingest.NewMQTTIngestor(a.cfg.MQTT, predictions, a.logger.Named("mqtt"))
		go func() {
			if err := ingestor.Start(ingestCtx); err != nil {
				a.logger.Error("mqtt ingestion not started", zap.Error(err))
			}
		}()
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
