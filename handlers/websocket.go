package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"glassclass/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	liveWriteWait    = 10 * time.Second
	livePingInterval = 30 * time.Second
)

// liveMessage is the frame sent for every stored prediction.
type liveMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// LiveWebSocket pushes each newly stored prediction record to the client. The
// feed rides on Redis pub/sub, so it answers 503 when Redis is off. Upgrades
// from origins rejected by checkOrigin fail with 403.
func LiveWebSocket(cache *services.CacheService, checkOrigin func(*http.Request) bool, logger *zap.Logger) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
	return func(c *gin.Context) {
		if !cache.Available() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed requires redis"})
			return
		}

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		sub := cache.SubscribeRecords(ctx)
		defer sub.Close()

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		go discardReads(conn, cancel)

		if err := streamRecords(ctx, conn, sub.Channel()); err != nil {
			logger.Debug("live feed closed", zap.Error(err))
		}
	}
}

// discardReads drains client frames so close and pong control messages are
// processed, and cancels the stream once the client goes away.
func discardReads(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func streamRecords(ctx context.Context, conn *websocket.Conn, records <-chan *redis.Message) error {
	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return err
			}
		case msg, ok := <-records:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(liveMessage{Type: "prediction", Data: json.RawMessage(msg.Payload)}); err != nil {
				return err
			}
		}
	}
}
