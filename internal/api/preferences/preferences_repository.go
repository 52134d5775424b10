package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-poi-itineraries/app/db"
	"github.com/FACorreiaa/go-poi-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

var _ Repository = (*PostgresPreferencesRepo)(nil)
var _ Source = (*PostgresPreferencesRepo)(nil)

// Repository persists taste preferences locally, keyed by owner.
type Repository interface {
	Get(ctx context.Context, ownerID string) (*types.StoredPreferences, error)
	Upsert(ctx context.Context, ownerID string, params types.UpsertPreferencesParams) (*types.StoredPreferences, error)
	Delete(ctx context.Context, ownerID string) error
}

type PostgresPreferencesRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresPreferencesRepo(db database.Querier, logger *slog.Logger) *PostgresPreferencesRepo {
	return &PostgresPreferencesRepo{
		logger: logger,
		db:     db,
	}
}

func observeQuery(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("db.table", "taste_preferences"), attribute.String("db.operation", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresPreferencesRepo) Get(ctx context.Context, ownerID string) (*types.StoredPreferences, error) {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "taste_preferences"),
		attribute.String("owner.id", ownerID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Get"), slog.String("ownerID", ownerID))

	query := `
        SELECT owner_id, travel_style, tourist_sites, diet, start_time, end_time, updated_at
        FROM taste_preferences
        WHERE owner_id = $1`

	start := time.Now()
	var p types.StoredPreferences
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID, &p.TravelStyle, &p.TouristSites, &p.Diet, &p.StartTime, &p.EndTime, &p.UpdatedAt,
	)
	observeQuery(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			l.DebugContext(ctx, "No stored preferences")
			return nil, fmt.Errorf("taste preferences for %s: %w", ownerID, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to query taste preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching taste preferences: %w", err)
	}

	span.SetStatus(codes.Ok, "Preferences fetched")
	return &p, nil
}

func (r *PostgresPreferencesRepo) Upsert(ctx context.Context, ownerID string, params types.UpsertPreferencesParams) (*types.StoredPreferences, error) {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "Upsert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "taste_preferences"),
		attribute.String("owner.id", ownerID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Upsert"), slog.String("ownerID", ownerID))

	query := `
        INSERT INTO taste_preferences (owner_id, travel_style, tourist_sites, diet, start_time, end_time, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (owner_id) DO UPDATE SET
            travel_style = EXCLUDED.travel_style,
            tourist_sites = EXCLUDED.tourist_sites,
            diet = EXCLUDED.diet,
            start_time = EXCLUDED.start_time,
            end_time = EXCLUDED.end_time,
            updated_at = NOW()
        RETURNING owner_id, travel_style, tourist_sites, diet, start_time, end_time, updated_at`

	start := time.Now()
	var p types.StoredPreferences
	err := r.db.QueryRow(ctx, query, ownerID,
		nonNil(params.TravelStyle), nonNil(params.TouristSites), nonNil(params.Diet),
		params.StartTime, params.EndTime,
	).Scan(&p.OwnerID, &p.TravelStyle, &p.TouristSites, &p.Diet, &p.StartTime, &p.EndTime, &p.UpdatedAt)
	observeQuery(ctx, "upsert", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to upsert taste preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB upsert failed")
		return nil, fmt.Errorf("database error saving taste preferences: %w", err)
	}

	l.InfoContext(ctx, "Taste preferences saved")
	span.SetStatus(codes.Ok, "Preferences saved")
	return &p, nil
}

func (r *PostgresPreferencesRepo) Delete(ctx context.Context, ownerID string) error {
	ctx, span := otel.Tracer("PreferencesRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "taste_preferences"),
		attribute.String("owner.id", ownerID),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM taste_preferences WHERE owner_id = $1`, ownerID)
	observeQuery(ctx, "delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete taste preferences", slog.String("ownerID", ownerID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting taste preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taste preferences for %s: %w", ownerID, types.ErrNotFound)
	}
	return nil
}

// Fetch lets the repository act as the preference source for the pipeline.
func (r *PostgresPreferencesRepo) Fetch(ctx context.Context, ownerID, _ string) (*types.RawTastePreferences, error) {
	stored, err := r.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored.RawTastePreferences, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
