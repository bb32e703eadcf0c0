// Package ingest feeds measurements published over MQTT into the prediction service.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glassclass/config"
	"glassclass/services"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassclass_ingest_messages_received_total",
		Help: "Total number of MQTT measurement messages received.",
	})
	msgsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassclass_ingest_messages_stored_total",
		Help: "Total number of MQTT messages that produced a stored prediction.",
	})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glassclass_ingest_messages_failed_total",
		Help: "Total number of MQTT messages rejected or failed to predict.",
	})
)

type Predictor interface {
	Predict(ctx context.Context, raw map[string]string) (*services.Outcome, error)
}

type MQTTIngestor struct {
	cfg         config.MQTTConfig
	predictions Predictor
	logger      *zap.Logger
	client      mqtt.Client
}

func NewMQTTIngestor(cfg config.MQTTConfig, predictions Predictor, logger *zap.Logger) *MQTTIngestor {
	return &MQTTIngestor{cfg: cfg, predictions: predictions, logger: logger}
}

// Start connects to the broker and subscribes to the measurement topic. It
// blocks until the first connection succeeds or ctx is cancelled. Messages are
// handled until ctx is cancelled or Stop is called.
func (i *MQTTIngestor) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(i.cfg.URL)
	opts.SetClientID(i.cfg.ClientID + "-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		if err := i.HandlePayload(ctx, message.Payload()); err != nil {
			i.logger.Warn("mqtt measurement rejected", zap.String("topic", message.Topic()), zap.Error(err))
		}
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(i.cfg.Topic, 0, nil)
		token.Wait()
		if token.Error() != nil {
			i.logger.Error("mqtt subscribe failed", zap.String("topic", i.cfg.Topic), zap.Error(token.Error()))
			return
		}
		i.logger.Info("mqtt subscribed", zap.String("topic", i.cfg.Topic))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		i.logger.Warn("mqtt connection lost", zap.Error(err))
	}

	i.client = mqtt.NewClient(opts)
	token := i.client.Connect()

	// With connect retry on, the token only completes once the broker answers.
	select {
	case <-token.Done():
	case <-ctx.Done():
		i.Stop()
		return fmt.Errorf("mqtt connect %s: %w", i.cfg.URL, ctx.Err())
	}
	if token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", i.cfg.URL, token.Error())
	}

	go func() {
		<-ctx.Done()
		i.Stop()
	}()
	return nil
}

// Stop disconnects, or abandons a connect attempt that is still retrying.
func (i *MQTTIngestor) Stop() {
	if i.client != nil {
		i.client.Disconnect(250)
	}
}

// HandlePayload runs one JSON measurement message through the prediction service.
func (i *MQTTIngestor) HandlePayload(ctx context.Context, payload []byte) error {
	msgsReceived.Inc()

	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		msgsFailed.Inc()
		return fmt.Errorf("invalid payload: %w", err)
	}

	out, err := i.predictions.Predict(ctx, services.RawFromJSON(body))
	if err != nil {
		msgsFailed.Inc()
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return fmt.Errorf("predict: %w", err)
	}

	msgsStored.Inc()
	i.logger.Debug("mqtt measurement classified",
		zap.Uint("id", out.Record.ID),
		zap.String("classification", out.Classification))
	return nil
}
