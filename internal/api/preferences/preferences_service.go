package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

var _ PreferencesService = (*PreferencesServiceImpl)(nil)

var ErrInvalidPreferences = errors.New("invalid preferences")

// PreferencesService resolves normalized preferences for the pipeline and manages the local store.
type PreferencesService interface {
	Resolve(ctx context.Context, owner types.Owner, budget types.BudgetTier) (types.TastePreferences, error)
	GetStored(ctx context.Context, ownerID string) (*types.StoredPreferences, error)
	Save(ctx context.Context, ownerID string, params types.UpsertPreferencesParams) (*types.StoredPreferences, error)
	Reset(ctx context.Context, ownerID string) error
}

type PreferencesServiceImpl struct {
	source Source
	store  Repository
	logger *slog.Logger
}

func NewPreferencesService(source Source, store Repository, logger *slog.Logger) *PreferencesServiceImpl {
	return &PreferencesServiceImpl{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Resolve fetches the owner's record and normalizes it. A missing record is not an error.
func (s *PreferencesServiceImpl) Resolve(ctx context.Context, owner types.Owner, budget types.BudgetTier) (types.TastePreferences, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("owner.id", owner.ID),
		attribute.String("budget", string(budget)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Resolve"), slog.String("ownerID", owner.ID))

	if owner.ID == "" {
		span.SetStatus(codes.Error, "missing owner")
		return types.TastePreferences{}, fmt.Errorf("%w: owner identifier could not be resolved", types.ErrUnauthenticated)
	}

	raw, err := s.source.Fetch(ctx, owner.ID, owner.Credential)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch taste preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return types.TastePreferences{}, fmt.Errorf("error fetching taste preferences: %w", err)
	}

	prefs := Normalize(raw, budget)
	l.DebugContext(ctx, "Preferences resolved",
		slog.Bool("stored_record", raw != nil),
		slog.Any("travel_sites", prefs.TravelSites),
		slog.Any("diet", prefs.Diet))
	span.SetStatus(codes.Ok, "resolved")
	return prefs, nil
}

func (s *PreferencesServiceImpl) GetStored(ctx context.Context, ownerID string) (*types.StoredPreferences, error) {
	stored, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error fetching stored preferences: %w", err)
	}
	return stored, nil
}

func (s *PreferencesServiceImpl) Save(ctx context.Context, ownerID string, params types.UpsertPreferencesParams) (*types.StoredPreferences, error) {
	for _, v := range []string{params.StartTime, params.EndTime} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return nil, fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidPreferences, v)
		}
	}
	stored, err := s.store.Upsert(ctx, ownerID, params)
	if err != nil {
		return nil, fmt.Errorf("error saving preferences: %w", err)
	}
	s.logger.InfoContext(ctx, "Preferences saved", slog.String("ownerID", ownerID))
	return stored, nil
}

func (s *PreferencesServiceImpl) Reset(ctx context.Context, ownerID string) error {
	if err := s.store.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("error resetting preferences: %w", err)
	}
	return nil
}
