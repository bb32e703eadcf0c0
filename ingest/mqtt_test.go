package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"glassclass/config"
	"glassclass/models"
	"glassclass/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPredictor struct {
	calls []map[string]string
	err   error
}

func (r *recordingPredictor) Predict(_ context.Context, raw map[string]string) (*services.Outcome, error) {
	r.calls = append(r.calls, raw)
	if r.err != nil {
		return nil, r.err
	}
	return &services.Outcome{ClassID: 1, Classification: "1", Record: &models.PredictionRecord{ID: 7}}, nil
}

func newIngestor(p Predictor) *MQTTIngestor {
	return NewMQTTIngestor(config.MQTTConfig{Topic: "glassclass/measurements/+"}, p, zap.NewNop())
}

func TestHandlePayloadPredicts(t *testing.T) {
	p := &recordingPredictor{}
	i := newIngestor(p)

	payload := []byte(`{"RI":1.52,"Na":13.6,"Mg":3.5,"Al":1.5,"Si":72.8,"K":0.6,"Ca":8,"Ba":0,"Fe":"0.0","station":"lab-2"}`)
	require.NoError(t, i.HandlePayload(context.Background(), payload))

	require.Len(t, p.calls, 1)
	assert.Equal(t, "1.52", p.calls[0]["RI"])
	assert.Equal(t, "8", p.calls[0]["Ca"])
	assert.Equal(t, "0.0", p.calls[0]["Fe"])
	assert.NotContains(t, p.calls[0], "station")
}

func TestHandlePayloadRejectsGarbage(t *testing.T) {
	p := &recordingPredictor{}
	i := newIngestor(p)

	assert.Error(t, i.HandlePayload(context.Background(), []byte("not json")))
	assert.Empty(t, p.calls)
}

func TestHandlePayloadSurfacesValidationErrors(t *testing.T) {
	p := &recordingPredictor{err: &services.ValidationError{Fields: services.FieldErrors{"Fe": services.ReasonRequired}}}
	i := newIngestor(p)

	err := i.HandlePayload(context.Background(), []byte(`{}`))
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, services.ReasonRequired, verr.Fields["Fe"])
}

func TestHandlePayloadUnavailable(t *testing.T) {
	i := newIngestor(&recordingPredictor{err: services.ErrSystemUnavailable})

	err := i.HandlePayload(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, services.ErrSystemUnavailable)
}

func TestStopWithoutStart(t *testing.T) {
	newIngestor(&recordingPredictor{}).Stop()
}

func TestStartReturnsWhenContextCancelled(t *testing.T) {
	cfg := config.MQTTConfig{URL: "tcp://127.0.0.1:1", Topic: "glassclass/measurements/+", ClientID: "glassclass-test"}
	i := NewMQTTIngestor(cfg, &recordingPredictor{}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- i.Start(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after its context was cancelled")
	}
}
