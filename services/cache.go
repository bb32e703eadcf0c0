package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"glassclass/config"
	"glassclass/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HistoryCacheKey      = "glassclass:history"
	HistoryGenerationKey = "glassclass:history:generation"
	PredictionsChannel   = "glassclass:predictions"

	pingAttempts = 10
	pingBackoff  = 2 * time.Second
)

// CacheService holds the optional Redis connection. When Redis is disabled or
// unreachable the client is nil and every operation is a miss or a no-op.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

// cachedHistory is the stored form of the /data listing. Generation is the
// value of HistoryGenerationKey when the rows were read.
type cachedHistory struct {
	Generation int64                     `json:"generation"`
	Records    []models.PredictionRecord `json:"records"`
}

func NewCacheService(cfg config.RedisConfig, logger *zap.Logger) (*CacheService, error) {
	if !cfg.Enabled {
		return NewDisabledCache(logger), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := waitForRedis(client, logger); err != nil {
		_ = client.Close()
		return NewDisabledCache(logger), err
	}
	logger.Info("redis connected", zap.String("addr", client.Options().Addr))
	return &CacheService{client: client, logger: logger}, nil
}

func waitForRedis(client *redis.Client, logger *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingBackoff)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			return nil
		}
		logger.Warn("redis ping failed", zap.Int("attempt", attempt), zap.Int("max_attempts", pingAttempts), zap.Error(err))
		if attempt < pingAttempts {
			time.Sleep(pingBackoff)
		}
	}
	return fmt.Errorf("redis ping failed after %d attempts: %w", pingAttempts, err)
}

func NewDisabledCache(logger *zap.Logger) *CacheService {
	return &CacheService{logger: logger}
}

func (s *CacheService) Available() bool {
	return s != nil && s.client != nil
}

// CachedHistory returns the cached newest-first listing when it is still
// current. The generation is returned in every case and must be passed to
// StoreHistory together with rows read after this call.
func (s *CacheService) CachedHistory(ctx context.Context) ([]models.PredictionRecord, int64, bool) {
	if !s.Available() {
		return nil, 0, false
	}

	vals, err := s.client.MGet(ctx, HistoryGenerationKey, HistoryCacheKey).Result()
	if err != nil {
		s.logger.Warn("history cache read failed", zap.Error(err))
		return nil, 0, false
	}

	var generation int64
	if raw, ok := vals[0].(string); ok {
		generation, _ = strconv.ParseInt(raw, 10, 64)
	}
	raw, ok := vals[1].(string)
	if !ok {
		return nil, generation, false
	}

	var entry cachedHistory
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		s.logger.Warn("history cache entry unreadable", zap.Error(err))
		return nil, generation, false
	}
	if entry.Generation != generation || entry.Records == nil {
		return nil, generation, false
	}
	return entry.Records, generation, true
}

// StoreHistory caches rows under the generation observed before they were
// read. An entry written after a newer record was stored is never served.
func (s *CacheService) StoreHistory(ctx context.Context, generation int64, rows []models.PredictionRecord, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	if rows == nil {
		rows = []models.PredictionRecord{}
	}
	data, err := json.Marshal(cachedHistory{Generation: generation, Records: rows})
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return s.client.Set(ctx, HistoryCacheKey, data, ttl).Err()
}

// InvalidateHistory bumps the history generation so every cached listing is stale.
func (s *CacheService) InvalidateHistory(ctx context.Context) error {
	if !s.Available() {
		return nil
	}
	return s.client.Incr(ctx, HistoryGenerationKey).Err()
}

// PublishRecord sends the stored record as JSON on PredictionsChannel.
func (s *CacheService) PublishRecord(ctx context.Context, record *models.PredictionRecord) error {
	if !s.Available() {
		return nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %d: %w", record.ID, err)
	}
	return s.client.Publish(ctx, PredictionsChannel, data).Err()
}

// SubscribeRecords returns nil when Redis is not available.
func (s *CacheService) SubscribeRecords(ctx context.Context) *redis.PubSub {
	if !s.Available() {
		return nil
	}
	return s.client.Subscribe(ctx, PredictionsChannel)
}

func (s *CacheService) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}
