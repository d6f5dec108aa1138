package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	dailyKeyTpl       = "%s:daily:%s"         // ${prefix}:daily:${date}
	dateVersionKeyTpl = "%s:version:daily:%s" // ${prefix}:version:daily:${date}
	allVersionKeyTpl  = "%s:version:all"      // ${prefix}:version:all
	presentField      = "_"
)

var errStaleSnapshot = errors.New("snapshot invalidated while loading")

// SnapshotCache keeps daily snapshots in redis hashes keyed by date.
// A disabled cache misses on every read and ignores writes.
type SnapshotCache struct {
	enabled bool
	redis   *redis.Client
	ttl     time.Duration
	prefix  string
}

func NewSnapshotCache(config *Config) (*SnapshotCache, error) {
	if config.Cache.RedisURL == "" {
		return &SnapshotCache{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewSnapshotCacheWithClient(client, config.Cache.TTL.Duration, config.Cache.KeyPrefix), nil
}

func NewSnapshotCacheWithClient(client *redis.Client, ttl time.Duration, prefix string) *SnapshotCache {
	return &SnapshotCache{
		enabled: true,
		redis:   client,
		ttl:     ttl,
		prefix:  prefix,
	}
}

func (c *SnapshotCache) Enabled() bool {
	return c.enabled
}

func (c *SnapshotCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}

func (c *SnapshotCache) key(date string) string {
	return fmt.Sprintf(dailyKeyTpl, c.prefix, date)
}

func (c *SnapshotCache) Get(ctx context.Context, date string) (map[int64]string, bool, error) {
	if !c.enabled {
		return nil, false, nil
	}

	fields, err := c.redis.HGetAll(ctx, c.key(date)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis error: %w", err)
	}
	if _, ok := fields[presentField]; !ok {
		return nil, false, nil
	}

	snapshot := make(map[int64]string, len(fields)-1)
	for field, status := range fields {
		if field == presentField {
			continue
		}
		empID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			logger.Debug.Printf("Ignoring malformed snapshot field %q in %s", field, c.key(date))
			continue
		}
		snapshot[empID] = status
	}

	return snapshot, true, nil
}

// Version reads the invalidation counters guarding date. Pass it to Set
// so a snapshot read before an invalidation is never written back.
func (c *SnapshotCache) Version(ctx context.Context, date string) (string, error) {
	if !c.enabled {
		return "", nil
	}

	counters, err := c.redis.MGet(ctx, c.versionKeys(date)...).Result()
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot version for %s: %w", date, err)
	}
	return versionOf(counters), nil
}

// Set stores snapshot unless date was invalidated since version was read.
// A skipped write is not an error.
func (c *SnapshotCache) Set(ctx context.Context, date, version string, snapshot map[int64]string) error {
	if !c.enabled {
		return nil
	}

	values := make(map[string]interface{}, len(snapshot)+1)
	values[presentField] = ""
	for empID, status := range snapshot {
		values[strconv.FormatInt(empID, 10)] = status
	}

	key := c.key(date)
	versionKeys := c.versionKeys(date)
	err := c.redis.Watch(ctx, func(tx *redis.Tx) error {
		counters, err := tx.MGet(ctx, versionKeys...).Result()
		if err != nil {
			return err
		}
		if versionOf(counters) != version {
			return errStaleSnapshot
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, values)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, versionKeys...)

	if errors.Is(err, errStaleSnapshot) || errors.Is(err, redis.TxFailedErr) {
		logger.Debug.Printf("Skipping stale snapshot for %s", date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to cache snapshot for %s: %w", date, err)
	}
	return nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context, date string) error {
	if !c.enabled {
		return nil
	}

	pipe := c.redis.TxPipeline()
	pipe.Incr(ctx, fmt.Sprintf(dateVersionKeyTpl, c.prefix, date))
	pipe.Del(ctx, c.key(date))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate snapshot for %s: %w", date, err)
	}
	return nil
}

// InvalidateAll drops every cached date.
func (c *SnapshotCache) InvalidateAll(ctx context.Context) error {
	if !c.enabled {
		return nil
	}

	// bump first so writers holding an older version give up
	if err := c.redis.Incr(ctx, fmt.Sprintf(allVersionKeyTpl, c.prefix)).Err(); err != nil {
		return fmt.Errorf("failed to bump snapshot version: %w", err)
	}

	iter := c.redis.Scan(ctx, 0, c.key("*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached snapshots: %w", err)
	}
	return nil
}

func (c *SnapshotCache) versionKeys(date string) []string {
	return []string{
		fmt.Sprintf(allVersionKeyTpl, c.prefix),
		fmt.Sprintf(dateVersionKeyTpl, c.prefix, date),
	}
}

// versionOf joins MGET counters, missing keys count as zero.
func versionOf(counters []interface{}) string {
	parts := make([]string, len(counters))
	for i, v := range counters {
		if v == nil {
			parts[i] = "0"
			continue
		}
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ":")
}
