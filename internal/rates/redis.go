package rates

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is where RedisCache keeps the rate table.
const DefaultRedisKey = "tokenpricing:rates"

// RedisCache shares the last fetched table between service instances.
type RedisCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisCache stores entries under key; ttl 0 keeps them until overwritten.
func NewRedisCache(client redis.Cmdable, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{client: client, key: key, ttl: ttl}
}

type redisEntry struct {
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

func (c *RedisCache) Load(ctx context.Context) (Entry, bool, error) {
	b, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var re redisEntry
	if err := json.Unmarshal(b, &re); err != nil {
		return Entry{}, false, err
	}
	rates := make(map[exchange.Currency]float64, len(re.Rates))
	for code, r := range re.Rates {
		rates[exchange.Currency(code)] = r
	}
	t, err := exchange.NewTable(rates)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Table: t, FetchedAt: re.FetchedAt}, true, nil
}

func (c *RedisCache) Store(ctx context.Context, e Entry) error {
	re := redisEntry{Rates: make(map[string]float64), FetchedAt: e.FetchedAt}
	for cur, r := range e.Table.Rates() {
		re.Rates[string(cur)] = r
	}
	b, err := json.Marshal(re)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, c.ttl).Err()
}
