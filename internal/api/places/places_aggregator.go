package places

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-poi-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

const (
	DefaultMaxConcurrentQueries = 4
	DefaultMinFoodCandidates    = 5
)

var _ AggregatorService = (*AggregatorServiceImpl)(nil)

// AggregatorService turns preferences into a candidate inventory for one destination.
type AggregatorService interface {
	Aggregate(ctx context.Context, destination string, prefs types.TastePreferences) (*types.LocationBundle, error)
}

type AggregatorServiceImpl struct {
	provider          PlacesProvider
	maxConcurrent     int
	minFoodCandidates int
	logger            *slog.Logger
}

// NewAggregatorService accepts a nil provider; Aggregate then reports LocationDataUnavailable.
func NewAggregatorService(provider PlacesProvider, maxConcurrent, minFood int, logger *slog.Logger) *AggregatorServiceImpl {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentQueries
	}
	if minFood <= 0 {
		minFood = DefaultMinFoodCandidates
	}
	return &AggregatorServiceImpl{
		provider:          provider,
		maxConcurrent:     maxConcurrent,
		minFoodCandidates: minFood,
		logger:            logger,
	}
}

// PrimaryQueries lists the interest queries followed by the diet queries, in issue order.
func PrimaryQueries(destination string, prefs types.TastePreferences) []types.PlaceQuery {
	var qs []types.PlaceQuery
	add := func(text string, purpose types.QueryPurpose) {
		qs = append(qs, types.PlaceQuery{Location: destination, Text: text, Purpose: purpose})
	}
	for _, site := range prefs.TravelSites {
		add(fmt.Sprintf("%s in %s", site, destination), types.PurposeInterest)
	}
	for _, diet := range prefs.Diet {
		switch diet {
		case preferences.DietNone:
			add(fmt.Sprintf("Food in %s", destination), types.PurposeDiet)
		case preferences.DietAllergy:
		default:
			add(fmt.Sprintf("%s Food in %s", diet, destination), types.PurposeDiet)
			add(fmt.Sprintf("%s restaurant in %s", diet, destination), types.PurposeBroadened)
			add(fmt.Sprintf("Best %s food in %s", diet, destination), types.PurposeBroadened)
			add(fmt.Sprintf("%s cafe in %s", diet, destination), types.PurposeBroadened)
		}
	}
	return qs
}

func BackfillQueries(destination string) []types.PlaceQuery {
	return []types.PlaceQuery{
		{Location: destination, Text: "Restaurants in " + destination, Purpose: types.PurposeBackfill},
		{Location: destination, Text: "Popular food in " + destination, Purpose: types.PurposeBackfill},
		{Location: destination, Text: "Cafes in " + destination, Purpose: types.PurposeBackfill},
	}
}

func (s *AggregatorServiceImpl) Aggregate(ctx context.Context, destination string, prefs types.TastePreferences) (*types.LocationBundle, error) {
	ctx, span := otel.Tracer("AggregatorService").Start(ctx, "Aggregate", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.String("budget", string(prefs.Budget)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Aggregate"), slog.String("destination", destination))

	destination = strings.TrimSpace(destination)
	if destination == "" {
		span.SetStatus(codes.Error, "missing destination")
		return nil, fmt.Errorf("%w: destination is required", types.ErrLocationDataUnavailable)
	}
	if s.provider == nil {
		span.SetStatus(codes.Error, "no provider")
		return nil, fmt.Errorf("%w: places provider is not configured", types.ErrLocationDataUnavailable)
	}

	bundle := &types.LocationBundle{
		Attractions: []types.PlaceCandidate{},
		Food:        []types.PlaceCandidate{},
	}
	attempted, failed := 0, 0

	primary, err := s.runPhase(ctx, PrimaryQueries(destination, prefs))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for _, res := range primary {
		attempted++
		if !res.OK() {
			failed++
			continue
		}
		attractions, food := Partition(res.Places, prefs.Budget)
		// only travel-site queries contribute attractions
		if res.Query.Purpose == types.PurposeInterest {
			bundle.Attractions = append(bundle.Attractions, attractions...)
		}
		bundle.Food = append(bundle.Food, food...)
	}
	bundle.Food = DedupByName(bundle.Food)

	if len(bundle.Food) < s.minFoodCandidates {
		l.InfoContext(ctx, "Too few food candidates, backfilling",
			slog.Int("food", len(bundle.Food)), slog.Int("min", s.minFoodCandidates))
		span.AddEvent("backfill", trace.WithAttributes(attribute.Int("food.before", len(bundle.Food))))

		backfill, err := s.runPhase(ctx, BackfillQueries(destination))
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		for _, res := range backfill {
			attempted++
			if !res.OK() {
				failed++
				continue
			}
			_, food := Partition(res.Places, prefs.Budget)
			bundle.Food = append(bundle.Food, food...)
		}
		bundle.Food = DedupByName(bundle.Food)
	}

	span.SetAttributes(
		attribute.Int("queries.attempted", attempted),
		attribute.Int("queries.failed", failed),
		attribute.Int("attractions", len(bundle.Attractions)),
		attribute.Int("food", len(bundle.Food)),
	)

	if attempted > 0 && failed == attempted {
		l.ErrorContext(ctx, "Every place query failed", slog.Int("attempted", attempted))
		span.SetStatus(codes.Error, "all queries failed")
		return nil, fmt.Errorf("%w: all %d place queries failed", types.ErrLocationDataUnavailable, attempted)
	}

	l.InfoContext(ctx, "Locations aggregated",
		slog.Int("attractions", len(bundle.Attractions)),
		slog.Int("food", len(bundle.Food)),
		slog.Int("failed_queries", failed))
	span.SetStatus(codes.Ok, "aggregated")
	return bundle, nil
}

// runPhase issues the queries concurrently. Results keep query order; a failing query yields a
// QueryResult with Err set instead of aborting the phase. Only caller cancellation is an error.
func (s *AggregatorServiceImpl) runPhase(ctx context.Context, queries []types.PlaceQuery) ([]types.QueryResult, error) {
	results := make([]types.QueryResult, len(queries))
	counter := metrics.Get().PlaceQueriesTotal

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, q := range queries {
		g.Go(func() error {
			places, err := s.provider.Search(gctx, q)
			results[i] = types.QueryResult{Query: q, Places: places, Err: err}

			outcome := "ok"
			if err != nil {
				outcome = "error"
				s.logger.WarnContext(gctx, "Place query failed",
					slog.String("query", q.Text),
					slog.String("purpose", string(q.Purpose)),
					slog.Any("error", err))
			}
			counter.Add(gctx, 1, metric.WithAttributes(
				attribute.String("purpose", string(q.Purpose)),
				attribute.String("outcome", outcome),
			))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("place aggregation cancelled: %w", err)
	}
	return results, nil
}
