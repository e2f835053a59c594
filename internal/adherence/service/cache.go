package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/adherence/internal/adherence"
	"github.com/2beens/adherence/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	megabyte       = 1024 * 1024
	cacheKeyPrefix = "day-score::"
)

// Cache memoises scored days. The in-process freecache is checked first,
// then the shared redis cache, if one is configured.
type Cache struct {
	memory         *freecache.Cache
	memoryExpire   int
	redisClient    *redis.Client
	redisTTL       time.Duration
	metricsManager *metrics.Manager
}

func NewCache(
	sizeMB, expireSeconds int,
	redisClient *redis.Client,
	redisTTL time.Duration,
	metricsManager *metrics.Manager,
) *Cache {
	return &Cache{
		memory:         freecache.NewCache(sizeMB * megabyte),
		memoryExpire:   expireSeconds,
		redisClient:    redisClient,
		redisTTL:       redisTTL,
		metricsManager: metricsManager,
	}
}

// CacheKey identifies a day score by the logs it was built from and the weights used.
func CacheKey(logs adherence.DayLogs, w adherence.Weights) (string, error) {
	keyInput, err := json.Marshal(struct {
		Logs    adherence.DayLogs `json:"logs"`
		Weights adherence.Weights `json:"weights"`
	}{logs, w})
	if err != nil {
		return "", fmt.Errorf("marshal cache key input: %w", err)
	}
	sum := sha256.Sum256(keyInput)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

func (c *Cache) Get(ctx context.Context, key string) (*adherence.DayAdherence, bool) {
	if dayBytes, err := c.memory.Get([]byte(key)); err == nil {
		day := &adherence.DayAdherence{}
		if err = json.Unmarshal(dayBytes, day); err == nil {
			c.hit(metrics.CacheLayerMemory)
			return day, true
		}
		log.Errorf("failed to unmarshal day score from memory cache [%s]: %s", key, err)
	}

	if c.redisClient == nil {
		c.miss()
		return nil, false
	}

	cmd := c.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to get day score from redis [%s]: %s", key, err)
		}
		c.miss()
		return nil, false
	}

	dayJson := cmd.Val()
	day := &adherence.DayAdherence{}
	if err := json.Unmarshal([]byte(dayJson), day); err != nil {
		log.Errorf("failed to unmarshal day score from redis [%s]: %s", key, err)
		c.miss()
		return nil, false
	}

	// backfill the memory layer
	if err := c.memory.Set([]byte(key), []byte(dayJson), c.memoryExpire); err != nil {
		log.Debugf("failed to backfill memory cache [%s]: %s", key, err)
	}
	c.hit(metrics.CacheLayerRedis)

	return day, true
}

func (c *Cache) Set(ctx context.Context, key string, day adherence.DayAdherence) {
	dayBytes, err := json.Marshal(day)
	if err != nil {
		log.Errorf("failed to marshal day score [%s]: %s", key, err)
		return
	}

	if err := c.memory.Set([]byte(key), dayBytes, c.memoryExpire); err != nil {
		log.Errorf("failed to write day score to memory cache [%s]: %s", key, err)
	}

	if c.redisClient == nil {
		return
	}
	if err := c.redisClient.Set(ctx, key, string(dayBytes), c.redisTTL).Err(); err != nil {
		log.Errorf("failed to write day score to redis [%s]: %s", key, err)
	}
}

func (c *Cache) hit(layer string) {
	if c.metricsManager != nil {
		c.metricsManager.CounterCacheHits.WithLabelValues(layer).Inc()
	}
}

func (c *Cache) miss() {
	if c.metricsManager != nil {
		c.metricsManager.CounterCacheMisses.Inc()
	}
}
