package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-poi-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/llm"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/places"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/prompt"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

var _ ItineraryService = (*ItineraryServiceImpl)(nil)

var ErrInvalidItinerary = errors.New("invalid itinerary")

// PreferencesResolver supplies normalized preferences for an owner.
type PreferencesResolver interface {
	Resolve(ctx context.Context, owner types.Owner, budget types.BudgetTier) (types.TastePreferences, error)
}

// ItineraryService runs the generation pipeline and manages stored itineraries.
type ItineraryService interface {
	Generate(ctx context.Context, owner types.Owner, trip types.TripRequest) (*types.GeneratedItinerary, error)
	GenerateAndSave(ctx context.Context, owner types.Owner, trip types.TripRequest) (*types.GeneratedItinerary, error)
	Create(ctx context.Context, ownerID string, itinerary, travelDetails json.RawMessage) (*types.StoredItinerary, error)
	List(ctx context.Context, ownerID string) ([]types.StoredItinerary, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*types.StoredItinerary, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

type ItineraryServiceImpl struct {
	prefs      PreferencesResolver
	aggregator places.AggregatorService
	generator  llm.TextGenerator
	repo       ItineraryRepository
	logger     *slog.Logger
}

func NewItineraryService(
	prefs PreferencesResolver,
	aggregator places.AggregatorService,
	generator llm.TextGenerator,
	repo ItineraryRepository,
	logger *slog.Logger,
) *ItineraryServiceImpl {
	return &ItineraryServiceImpl{
		prefs:      prefs,
		aggregator: aggregator,
		generator:  generator,
		repo:       repo,
		logger:     logger,
	}
}

// run tracks the state machine of one Generate call.
type run struct {
	ctx    context.Context
	span   trace.Span
	logger *slog.Logger
	states []types.PipelineState
}

func (r *run) advance(s types.PipelineState) {
	r.states = append(r.states, s)
	r.span.AddEvent(string(s))
	r.logger.DebugContext(r.ctx, "Pipeline state", slog.String("state", string(s)))
}

func (r *run) current() types.PipelineState {
	return r.states[len(r.states)-1]
}

func (r *run) fail(kind error, err error) *types.PipelineError {
	pe := types.NewPipelineError(kind, r.current(), err)
	r.states = append(r.states, types.StateFailed)
	r.span.AddEvent(string(types.StateFailed), trace.WithAttributes(attribute.String("failure.kind", pe.KindName())))
	r.span.RecordError(pe)
	r.span.SetStatus(codes.Error, pe.KindName())
	r.logger.ErrorContext(r.ctx, "Itinerary generation failed",
		slog.String("kind", pe.KindName()),
		slog.String("state", string(pe.State)),
		slog.Any("error", err))
	return pe
}

// Generate runs preferences, places, prompt, generation and validation once, in that order.
// Failures are *types.PipelineError; caller cancellation is returned as the context error.
func (s *ItineraryServiceImpl) Generate(ctx context.Context, owner types.Owner, trip types.TripRequest) (_ *types.GeneratedItinerary, err error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("owner.id", owner.ID),
		attribute.String("destination", trip.Destination),
		attribute.Int("travelers", trip.NumTravelers),
		attribute.String("budget", string(trip.Budget)),
	))
	defer span.End()

	started := time.Now()
	defer func() { recordOutcome(ctx, started, err) }()

	r := &run{
		ctx:    ctx,
		span:   span,
		logger: s.logger.With(slog.String("method", "Generate"), slog.String("ownerID", owner.ID)),
	}
	r.advance(types.StateStart)

	trip.Destination = strings.TrimSpace(trip.Destination)
	if trip.Destination == "" {
		return nil, r.fail(types.ErrLocationDataUnavailable, errors.New("destination is required"))
	}
	if err := trip.Validate(); err != nil {
		return nil, r.fail(types.ErrInvalidTripRequest, err)
	}

	prefs, err := s.prefs.Resolve(ctx, owner, trip.Budget)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cancelled(r, ctxErr)
		}
		return nil, r.fail(types.ErrPreferencesUnavailable, err)
	}
	r.advance(types.StatePreferencesResolved)

	bundle, err := s.aggregator.Aggregate(ctx, trip.Destination, prefs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cancelled(r, ctxErr)
		}
		return nil, r.fail(types.ErrLocationDataUnavailable, err)
	}
	r.advance(types.StateLocationsAggregated)
	span.SetAttributes(
		attribute.Int("places.attractions", len(bundle.Attractions)),
		attribute.Int("places.food", len(bundle.Food)),
	)

	text, err := prompt.Compose(prefs, *bundle, trip)
	if err != nil {
		return nil, r.fail(types.ErrLocationDataUnavailable, err)
	}
	r.advance(types.StatePromptBuilt)

	raw, err := s.generator.Generate(ctx, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cancelled(r, ctxErr)
		}
		return nil, r.fail(types.ErrGenerationProvider, err)
	}
	r.advance(types.StateGenerationCalled)

	var parsed types.ParsedPlan
	switch res := Validate(raw, trip, prefs).(type) {
	case types.MalformedOutput:
		pe := r.fail(types.ErrMalformedGenerationOutput, res.Err)
		pe.RawResponse = res.Raw
		return nil, pe
	case types.ParsedPlan:
		parsed = res
	}
	r.advance(types.StateValidated)

	if parsed.DetailsBackfilled {
		r.logger.InfoContext(ctx, "Travel details missing from model output, rebuilt from request")
	}
	if len(parsed.SchemaIssues) > 0 {
		r.logger.WarnContext(ctx, "Itinerary deviates from schema",
			slog.Int("issues", len(parsed.SchemaIssues)),
			slog.Any("first_issues", firstN(parsed.SchemaIssues, 5)))
	}
	if len(parsed.FoodActivities) == 0 {
		r.logger.WarnContext(ctx, "No food activities detected in itinerary")
	}

	r.advance(types.StateDone)
	span.SetStatus(codes.Ok, "itinerary generated")
	r.logger.InfoContext(ctx, "Itinerary generated",
		slog.Int("days", len(parsed.Plan.Days)),
		slog.Int("food_activities", len(parsed.FoodActivities)),
		slog.Duration("elapsed", time.Since(started)))

	return &types.GeneratedItinerary{
		Plan:            parsed.Plan,
		FoodActivities:  parsed.FoodActivities,
		SchemaIssues:    parsed.SchemaIssues,
		AttractionCount: len(bundle.Attractions),
		FoodCount:       len(bundle.Food),
		States:          r.states,
	}, nil
}

// GenerateAndSave stores the plan after a successful run. Storage failures leave ItineraryID nil.
func (s *ItineraryServiceImpl) GenerateAndSave(ctx context.Context, owner types.Owner, trip types.TripRequest) (*types.GeneratedItinerary, error) {
	gen, err := s.Generate(ctx, owner, trip)
	if err != nil {
		return nil, err
	}

	record, err := types.NewStoredItinerary(owner.ID, gen.Plan)
	if err == nil {
		record, err = s.repo.Save(ctx, record)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Generated itinerary could not be saved",
			slog.String("ownerID", owner.ID), slog.Any("error", err))
		return gen, nil
	}
	id := record.ID
	gen.ItineraryID = &id
	return gen, nil
}

func (s *ItineraryServiceImpl) Create(ctx context.Context, ownerID string, itinerary, travelDetails json.RawMessage) (*types.StoredItinerary, error) {
	if len(itinerary) == 0 || string(itinerary) == "null" {
		return nil, fmt.Errorf("%w: itinerary is required", ErrInvalidItinerary)
	}
	plan, hasDetails, err := types.DecodeItineraryPlan(itinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItinerary, err)
	}
	if len(travelDetails) > 0 && string(travelDetails) != "null" {
		var d types.TravelDetails
		if err := json.Unmarshal(travelDetails, &d); err != nil {
			return nil, fmt.Errorf("%w: travelDetails: %v", ErrInvalidItinerary, err)
		}
		plan.TravelDetails = d
		hasDetails = true
	}
	if !hasDetails || plan.TravelDetails.Destination == "" {
		return nil, fmt.Errorf("%w: travelDetails.destination is required", ErrInvalidItinerary)
	}

	record, err := types.NewStoredItinerary(ownerID, plan)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error saving itinerary: %w", err)
	}
	return saved, nil
}

func (s *ItineraryServiceImpl) List(ctx context.Context, ownerID string) ([]types.StoredItinerary, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing itineraries: %w", err)
	}
	return list, nil
}

func (s *ItineraryServiceImpl) Get(ctx context.Context, ownerID string, id uuid.UUID) (*types.StoredItinerary, error) {
	it, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching itinerary: %w", err)
	}
	return it, nil
}

func (s *ItineraryServiceImpl) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("error deleting itinerary: %w", err)
	}
	return nil
}

func cancelled(r *run, ctxErr error) error {
	r.logger.WarnContext(r.ctx, "Itinerary generation cancelled", slog.String("state", string(r.current())))
	r.states = append(r.states, types.StateFailed)
	r.span.RecordError(ctxErr)
	r.span.SetStatus(codes.Error, "cancelled")
	return fmt.Errorf("itinerary generation cancelled: %w", ctxErr)
}

func recordOutcome(ctx context.Context, started time.Time, err error) {
	m := metrics.Get()
	outcome, kind := "success", "none"
	if err != nil {
		outcome = "failure"
		var pe *types.PipelineError
		if errors.As(err, &pe) {
			kind = pe.KindName()
		} else {
			kind = "Cancelled"
		}
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome), attribute.String("kind", kind))
	m.ItineraryGenerationsTotal.Add(ctx, 1, attrs)
	m.ItineraryGenerationSeconds.Record(ctx, time.Since(started).Seconds(), attrs)
}

func firstN(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
