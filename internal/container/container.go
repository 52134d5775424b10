package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	database "github.com/FACorreiaa/go-poi-itineraries/app/db"
	"github.com/FACorreiaa/go-poi-itineraries/config"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/llm"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/places"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/preferences"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	DB                 DB
	Redis              *redis.Client
	ItineraryHandler   *itinerary.ItineraryHandler
	PreferencesHandler *preferences.PreferencesHandler
}

// DB is what the repositories and the health check need from the pool.
type DB interface {
	database.Querier
	database.Pinger
}

// NewContainer wires repositories, upstream clients, services and handlers on top of an
// initialized pool.
func NewContainer(ctx context.Context, cfg *config.Config, pool DB, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, DB: pool}

	prefsRepo := preferences.NewPostgresPreferencesRepo(pool, logger)
	var source preferences.Source
	switch cfg.Preferences.Source {
	case "postgres":
		source = prefsRepo
	case "remote":
		source = preferences.NewRemoteSource(cfg.Preferences.BaseURL, tracedClient(cfg.Preferences.Timeout), logger)
	default:
		return nil, fmt.Errorf("unknown preferences source %q", cfg.Preferences.Source)
	}
	prefsService := preferences.NewPreferencesService(source, prefsRepo, logger)

	provider, err := c.placesProvider(ctx)
	if err != nil {
		logger.Error("Failed to initialize places provider", slog.Any("error", err))
		return nil, err
	}
	aggregator := places.NewAggregatorService(provider, cfg.Places.MaxConcurrentQueries, cfg.Places.MinFoodCandidates, logger)

	generator, err := llm.NewTextGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("Failed to initialize text generator", slog.Any("error", err))
		return nil, err
	}

	itineraryRepo := itinerary.NewPostgresItineraryRepo(pool, logger)
	itineraryService := itinerary.NewItineraryService(prefsService, aggregator, generator, itineraryRepo, logger)

	c.ItineraryHandler = itinerary.NewItineraryHandler(itineraryService, pool, logger)
	c.PreferencesHandler = preferences.NewPreferencesHandler(prefsService, logger)
	return c, nil
}

func (c *Container) placesProvider(ctx context.Context) (places.PlacesProvider, error) {
	cfg := c.Config.Places

	var provider places.PlacesProvider
	switch cfg.Provider {
	case "proxy":
		provider = places.NewProxyClient(cfg.BaseURL, tracedClient(cfg.Timeout), c.Logger)
	case "google":
		g, err := places.NewGoogleClient(ctx, cfg.GoogleAPIKey, c.Logger)
		if err != nil {
			return nil, err
		}
		provider = g
	default:
		return nil, fmt.Errorf("unknown places provider %q", cfg.Provider)
	}

	var cache places.ResultCache
	switch cfg.Cache.Backend {
	case "none":
		return provider, nil
	case "memory":
		cache = places.NewMemoryCache(cfg.Cache.TTL)
	case "redis":
		redisCfg := c.Config.Repositories.Redis
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     redisCfg.Address,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			// lookups fall through to the provider while redis is down
			c.Logger.Warn("Redis not reachable, place cache degraded", slog.String("address", redisCfg.Address), slog.Any("error", err))
		}
		cache = places.NewRedisCache(c.Redis, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown place cache backend %q", cfg.Cache.Backend)
	}
	return places.NewCachedProvider(provider, cache, c.Logger), nil
}

// tracedClient propagates trace context to upstream services and records client spans.
func tracedClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}
