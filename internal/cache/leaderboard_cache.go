package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/ecotrack/gamification/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	leaderboardPrefix = "gamification:leaderboard:"
	generationKey     = leaderboardPrefix + "gen"
	defaultTTL        = 30 * time.Second
	opTimeout         = 2 * time.Second
)

// LeaderboardCache stores rendered leaderboard pages in Redis, one key per
// generation and limit. Invalidate bumps the generation, so a page computed
// before a point change can only land under a key nobody reads anymore.
// Every method is best-effort: Redis errors are logged and treated as misses.
type LeaderboardCache struct {
	rc  *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewLeaderboardCache(rc *redis.Client, ttl time.Duration, log *zap.Logger) *LeaderboardCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LeaderboardCache{rc: rc, ttl: ttl, log: log}
}

func Key(gen int64, limit int) string {
	return leaderboardPrefix + "g" + strconv.FormatInt(gen, 10) + ":top:" + strconv.Itoa(limit)
}

// Generation reports the current generation; ok is false when Redis cannot
// be read, in which case callers skip the cache.
func (c *LeaderboardCache) Generation(ctx context.Context) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	gen, err := c.rc.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn("leaderboard cache generation unreadable", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *LeaderboardCache) Get(ctx context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	b, err := c.rc.Get(ctx, Key(gen, limit)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("leaderboard cache get failed", zap.Int("limit", limit), zap.Error(err))
		}
		return nil, false
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		c.log.Warn("leaderboard cache entry unreadable", zap.Int("limit", limit), zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, gen int64, limit int, entries []model.LeaderboardEntry) {
	b, err := json.Marshal(entries)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rc.Set(ctx, Key(gen, limit), b, c.ttl).Err(); err != nil {
		c.log.Warn("leaderboard cache set failed", zap.Int("limit", limit), zap.Error(err))
	}
}

// Invalidate moves readers to a fresh generation. Pages of older
// generations expire with their TTL.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rc.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Error("leaderboard cache invalidate failed", zap.Error(err))
	}
}
