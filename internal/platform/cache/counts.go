package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/events"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// CountsSource computes task counts from the system of record.
type CountsSource interface {
	Counts(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error)
}

// generationTTL keeps a user's eviction counter alive well past any read
// that could still be loading from the source.
const generationTTL = 24 * time.Hour

// storeIfCurrent writes a counts entry only if the user's generation still
// equals the one read before loading from the source.
//
// KEYS[1] counts hash, KEYS[2] generation
// ARGV[1] generation, ARGV[2] day, ARGV[3] counts JSON, ARGV[4] ttl in ms
var storeIfCurrent = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// CountsCache wraps a CountsSource with Redis. Each user has one hash keyed
// by day, so a single DEL evicts every day for that user. Evictions also bump
// a per-user generation so that a load which raced with a mutation is never
// written back.
type CountsCache struct {
	base   CountsSource
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	// stale holds users whose last eviction failed. Their cache entries are
	// not trusted until an eviction succeeds.
	mu    sync.Mutex
	stale map[uuid.UUID]struct{}
}

// NewCountsCache creates a cache in front of base. A nil client disables
// caching and every call goes to base.
func NewCountsCache(base CountsSource, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CountsCache {
	if base == nil {
		panic("cache.NewCountsCache: base source is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CountsCache{
		base:   base,
		redis:  client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "counts_cache")),
		stale:  make(map[uuid.UUID]struct{}),
	}
}

var (
	_ CountsSource         = (*CountsCache)(nil)
	_ events.EventHandler = (*CountsCache)(nil)
)

// Counts returns cached counts for (userID, today), loading and storing them
// on a miss. Redis failures fall back to base without failing the call.
func (c *CountsCache) Counts(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error) {
	if c.redis == nil || !c.retryEviction(ctx, userID) {
		return c.base.Counts(ctx, userID, today)
	}

	if counts, ok := c.load(ctx, userID, today); ok {
		return counts, nil
	}

	gen, ok := c.generation(ctx, userID)

	counts, err := c.base.Counts(ctx, userID, today)
	if err != nil {
		return domain.TaskCounts{}, err
	}

	if ok {
		c.store(ctx, userID, today, gen, counts)
	}
	return counts, nil
}

// HandleEvent evicts the user's cached counts after any task mutation.
func (c *CountsCache) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	return c.Evict(ctx, event.UserID)
}

// Evict removes all cached counts for userID and advances its generation. On
// failure the user is marked stale and bypasses the cache until a later
// eviction succeeds.
func (c *CountsCache) Evict(ctx context.Context, userID uuid.UUID) error {
	if c.redis == nil {
		return nil
	}

	genKey := generationKey(userID)
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, countsKey(userID))
		return nil
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.stale[userID] = struct{}{}
		return fmt.Errorf("failed to evict task counts: %w", err)
	}
	delete(c.stale, userID)
	return nil
}

// retryEviction reports whether the cache may be used for userID, first
// repeating an eviction that previously failed.
func (c *CountsCache) retryEviction(ctx context.Context, userID uuid.UUID) bool {
	c.mu.Lock()
	_, stale := c.stale[userID]
	c.mu.Unlock()
	if !stale {
		return true
	}

	if err := c.Evict(ctx, userID); err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("counts cache eviction retry failed",
			slog.String("error", redact.Error(err)))
		return false
	}
	return true
}

// generation returns the user's current eviction generation, "0" when none
// has happened yet. ok is false when Redis could not be read.
func (c *CountsCache) generation(ctx context.Context, userID uuid.UUID) (string, bool) {
	gen, err := c.redis.Get(ctx, generationKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "0", true
	case err != nil:
		logger.FromContextOrDefault(ctx, c.logger).Warn("counts cache generation read failed",
			slog.String("error", redact.Error(err)))
		return "", false
	}
	return gen, true
}

func (c *CountsCache) load(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, bool) {
	key := countsKey(userID)

	data, err := c.redis.HGet(ctx, key, string(today)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromContextOrDefault(ctx, c.logger).Warn("counts cache read failed",
				slog.String("error", redact.Error(err)))
			_ = c.redis.Del(ctx, key).Err()
		}
		return domain.TaskCounts{}, false
	}

	var counts domain.TaskCounts
	if err := json.Unmarshal(data, &counts); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return domain.TaskCounts{}, false
	}
	return counts, true
}

// store writes counts unless the user was evicted since gen was read.
func (c *CountsCache) store(ctx context.Context, userID uuid.UUID, today domain.Day, gen string, counts domain.TaskCounts) {
	if c.ttl == 0 {
		return
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return
	}

	keys := []string{countsKey(userID), generationKey(userID)}
	ttlMillis := max(c.ttl.Milliseconds(), 1)
	written, err := storeIfCurrent.Run(ctx, c.redis, keys, gen, string(today), data, ttlMillis).Int()
	if err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("counts cache write failed",
			slog.String("error", redact.Error(err)))
		return
	}
	if written == 0 {
		logger.FromContextOrDefault(ctx, c.logger).Debug("discarded counts loaded before an eviction",
			slog.String("user_id", userID.String()))
	}
}

func countsKey(userID uuid.UUID) string {
	return "task_counts:" + userID.String()
}

func generationKey(userID uuid.UUID) string {
	return "task_counts_gen:" + userID.String()
}
