package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"mailscore/config"
)

// Day keys outlive the UTC day they cover by one day so a reader near
// midnight never sees a missing key, then expire.
const dayKeyTTL = 48 * time.Hour

// checkAndIncr performs the quota gate atomically so concurrent requests
// on the same key cannot slip past the limit.
var checkAndIncr = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if current >= limit then
  return {0, current}
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return {1, current}
`)

// RedisStore implements UsageStore on Redis for multi-process deployments.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		now: time.Now,
	}
}

func (r *RedisStore) key(apiKey string) string {
	return fmt.Sprintf("usage:%s:%s", apiKey, usageDay(r.now()))
}

func (r *RedisStore) CheckAndIncrement(ctx context.Context, apiKey string, limit int) (bool, int, error) {
	result, err := checkAndIncr.Run(ctx, r.client, []string{r.key(apiKey)},
		limit, int(dayKeyTTL.Seconds())).Result()
	if err != nil {
		return false, 0, fmt.Errorf("usage check for %s: %w", apiKey, err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected usage script reply %v", result)
	}
	allowed, _ := values[0].(int64)
	usage, _ := values[1].(int64)
	return allowed == 1, int(usage), nil
}

func (r *RedisStore) CurrentUsage(ctx context.Context, apiKey string) (int, error) {
	usage, err := r.client.Get(ctx, r.key(apiKey)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage read for %s: %w", apiKey, err)
	}
	return usage, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
