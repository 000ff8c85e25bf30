package cache

import (
	"context"
	"errors"

	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores the snapshot as a JSON string under a single redis key.
type RedisCache struct {
	client redis.UniversalClient
	key    string
	logger logging.Logger
}

// NewRedisClient builds a client for addr and db.
func NewRedisClient(addr string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
}

// NewRedisCache wraps client. The caller owns the client and closes it.
func NewRedisCache(client redis.UniversalClient, key string, logger logging.Logger) *RedisCache {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RedisCache{
		client: client,
		key:    key,
		logger: logger.WithField(logging.FieldComponent, "redis-cache"),
	}
}

// ReadSnapshot returns the stored snapshot, or an empty one when the key is
// absent, redis is unreachable or the value is malformed.
func (c *RedisCache) ReadSnapshot(ctx context.Context) []models.Transaction {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("Failed to read snapshot, starting empty",
				logging.F(logging.FieldKey, c.key))
		}
		return []models.Transaction{}
	}

	records, ok := decodeSnapshot(val)
	if !ok {
		c.logger.Warn("Malformed snapshot, starting empty", logging.F(logging.FieldKey, c.key))
	}
	return records
}

// WriteSnapshot replaces the stored snapshot without expiry. Failures are logged, not returned.
func (c *RedisCache) WriteSnapshot(ctx context.Context, records []models.Transaction) {
	data, err := encodeSnapshot(records)
	if err != nil {
		c.logger.WithError(err).Error("Failed to encode snapshot")
		return
	}
	if err := c.client.Set(ctx, c.key, data, 0).Err(); err != nil {
		c.logger.WithError(err).Error("Failed to write snapshot", logging.F(logging.FieldKey, c.key))
		return
	}
	c.logger.Debug("Wrote snapshot",
		logging.F(logging.FieldKey, c.key),
		logging.F(logging.FieldCount, len(records)))
}
