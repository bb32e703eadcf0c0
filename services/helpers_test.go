package services

import (
	"path/filepath"
	"testing"

	"glassclass/config"
	"glassclass/database"
	"glassclass/ml"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validInput = map[string]string{
	"RI": "1.52", "Na": "13.6", "Mg": "3.5", "Al": "1.5", "Si": "72.8",
	"K": "0.6", "Ca": "8.0", "Ba": "0", "Fe": "0",
}

func copyInput(overrides map[string]string, drop ...string) map[string]string {
	out := make(map[string]string, len(validInput))
	for k, v := range validInput {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "glassclass.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// fakeModel records the vectors it sees and answers with a fixed class id.
type fakeModel struct {
	ready      bool
	classID    int
	predictErr error
	transforms [][]float64
	predicts   int
}

func (f *fakeModel) Ready() bool { return f.ready }

func (f *fakeModel) Transform(features []float64) ([]float64, error) {
	if !f.ready {
		return nil, ml.ErrModelUnavailable
	}
	f.transforms = append(f.transforms, append([]float64(nil), features...))
	return features, nil
}

func (f *fakeModel) Predict([]float64) (int, error) {
	f.predicts++
	if f.predictErr != nil {
		return 0, f.predictErr
	}
	return f.classID, nil
}

func newTestService(t *testing.T, model ml.Predictor) (*PredictionService, *RecordStore) {
	t.Helper()
	logger := zap.NewNop()
	records := NewRecordStore(newTestDB(t))
	svc := NewPredictionService(model, NewInputValidator(logger), records, NewDisabledCache(logger), logger)
	return svc, records
}
