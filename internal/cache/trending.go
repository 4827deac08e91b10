package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"microfeed/internal/config"
	"microfeed/internal/models"
)

// Entries live in one hash per generation, one field per requested limit.
// Invalidate bumps the generation, so a writer holding an older one can only
// fill a hash nobody reads any more.
const (
	generationKey = "microfeed:trending:gen"
	entriesPrefix = "microfeed:trending:"
)

type TrendingCache interface {
	// Generation must be read before the data that will be passed to Set.
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, limit int) ([]models.TagCount, bool, error)
	Set(ctx context.Context, gen int64, limit int, tags []models.TagCount) error
	Invalidate(ctx context.Context) error
}

func entriesKey(gen int64) string {
	return entriesPrefix + strconv.FormatInt(gen, 10)
}

func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	return rdb, nil
}

type redisTrending struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisTrending(rdb redis.Cmdable, ttl time.Duration) TrendingCache {
	return &redisTrending{rdb: rdb, ttl: ttl}
}

func (c *redisTrending) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка чтения поколения кэша трендов: %w", err)
	}
	return gen, nil
}

func (c *redisTrending) Get(ctx context.Context, gen int64, limit int) ([]models.TagCount, bool, error) {
	raw, err := c.rdb.HGet(ctx, entriesKey(gen), strconv.Itoa(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка чтения кэша трендов: %w", err)
	}

	tags, err := decodeTags(raw)
	if err != nil {
		return nil, false, err
	}

	return tags, true, nil
}

func (c *redisTrending) Set(ctx context.Context, gen int64, limit int, tags []models.TagCount) error {
	raw, err := encodeTags(tags)
	if err != nil {
		return err
	}

	key := entriesKey(gen)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(limit), raw)
	pipe.Expire(ctx, key, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("ошибка записи кэша трендов: %w", err)
	}

	return nil
}

func (c *redisTrending) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("ошибка сброса кэша трендов: %w", err)
	}
	return nil
}

// noopTrending is used when Redis is not configured: every read misses.
type noopTrending struct{}

func NewNoopTrending() TrendingCache {
	return noopTrending{}
}

func (noopTrending) Generation(context.Context) (int64, error) { return 0, nil }

func (noopTrending) Get(context.Context, int64, int) ([]models.TagCount, bool, error) {
	return nil, false, nil
}

func (noopTrending) Set(context.Context, int64, int, []models.TagCount) error { return nil }

func (noopTrending) Invalidate(context.Context) error { return nil }

func encodeTags(tags []models.TagCount) ([]byte, error) {
	if tags == nil {
		tags = []models.TagCount{}
	}

	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации трендов: %w", err)
	}
	return raw, nil
}

func decodeTags(raw []byte) ([]models.TagCount, error) {
	var tags []models.TagCount
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("ошибка десериализации трендов: %w", err)
	}
	if tags == nil {
		tags = []models.TagCount{}
	}
	return tags, nil
}
