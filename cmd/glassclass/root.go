package main

import (
	"fmt"

	"glassclass/config"
	"glassclass/database"
	"glassclass/logging"
	"glassclass/ml"
	"glassclass/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every subcommand needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func rootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "glassclass",
		Short:         "Glass type classification service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		serveCommand(a),
		predictCommand(a),
		exportCommand(a),
		migrateCommand(a),
	)
	return root
}

func (a *app) initialize() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) openDatabase() (*gorm.DB, error) {
	db, err := database.Open(a.cfg.Database, a.logger.Named("db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// predictionService wires the model, validator and record store. The model
// store is loaded even when artifacts are missing so callers can report
// unavailability per request.
func (a *app) predictionService(db *gorm.DB, cache *services.CacheService) *services.PredictionService {
	model := ml.Load(a.cfg.Model.ScalerPath, a.cfg.Model.ClassifierPath, a.logger.Named("ml"))
	return services.NewPredictionService(
		model,
		services.NewInputValidator(a.logger.Named("validator")),
		services.NewRecordStore(db),
		cache,
		a.logger.Named("predictions"),
	)
}
