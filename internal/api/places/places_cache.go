package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-poi-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// ResultCache stores place search results by query key.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]types.PlaceCandidate, bool, error)
	Set(ctx context.Context, key string, places []types.PlaceCandidate) error
}

var (
	_ ResultCache = (*MemoryCache)(nil)
	_ ResultCache = (*RedisCache)(nil)
)

type MemoryCache struct {
	c *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(ttl, ttl/2)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]types.PlaceCandidate, bool, error) {
	v, found := m.c.Get(key)
	if !found {
		return nil, false, nil
	}
	places, ok := v.([]types.PlaceCandidate)
	if !ok {
		return nil, false, fmt.Errorf("unexpected cache entry type %T", v)
	}
	return places, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, places []types.PlaceCandidate) error {
	m.c.Set(key, places, cache.DefaultExpiration)
	return nil
}

// RedisCache shares results between instances. Values are JSON.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "places:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]types.PlaceCandidate, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var places []types.PlaceCandidate
	if err := json.Unmarshal([]byte(val), &places); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return places, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, places []types.PlaceCandidate) error {
	b, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, b, r.ttl).Err()
}

var _ PlacesProvider = (*CachedProvider)(nil)

// CachedProvider serves repeated queries from a ResultCache. Only successful searches are
// stored and cache failures fall through to the wrapped provider.
type CachedProvider struct {
	next   PlacesProvider
	cache  ResultCache
	logger *slog.Logger
}

func NewCachedProvider(next PlacesProvider, c ResultCache, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: c, logger: logger}
}

func cacheKey(q types.PlaceQuery) string {
	return strings.ToLower(strings.TrimSpace(q.Location)) + "|" + strings.ToLower(strings.TrimSpace(q.Text))
}

func (p *CachedProvider) Search(ctx context.Context, q types.PlaceQuery) ([]types.PlaceCandidate, error) {
	key := cacheKey(q)
	lookups := metrics.Get().PlaceCacheLookupsTotal

	cached, found, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		p.logger.WarnContext(ctx, "Place cache read failed", slog.String("key", key), slog.Any("error", err))
		lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "error")))
	case found:
		lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "hit")))
		return cached, nil
	default:
		lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))
	}

	places, err := p.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, key, places); err != nil {
		p.logger.WarnContext(ctx, "Place cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return places, nil
}
