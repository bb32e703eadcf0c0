package database

import (
	"path/filepath"
	"testing"

	"glassclass/config"
	"glassclass/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "nested", "glassclass.db"),
	}
	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable(&models.PredictionRecord{}))
	assert.True(t, db.Migrator().HasColumn(&models.PredictionRecord{}, "classification"))
	assert.True(t, db.Migrator().HasIndex(&models.PredictionRecord{}, "CreatedAt"))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}
