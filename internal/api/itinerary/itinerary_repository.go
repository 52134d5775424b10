package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
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

var _ ItineraryRepository = (*PostgresItineraryRepo)(nil)

// ItineraryRepository stores finished itineraries. Reads and deletes are scoped to the owner.
type ItineraryRepository interface {
	Save(ctx context.Context, it *types.StoredItinerary) (*types.StoredItinerary, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.StoredItinerary, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*types.StoredItinerary, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

type PostgresItineraryRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresItineraryRepo(db database.Querier, logger *slog.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger: logger,
		db:     db,
	}
}

const itineraryColumns = `id, owner_id, travel_destination, start_date, end_date, travellers, budget,
        daily_start_time, daily_end_time, plan, created_at`

func observeQuery(ctx context.Context, op string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("db.table", "itineraries"), attribute.String("db.operation", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func scanItinerary(row pgx.Row) (*types.StoredItinerary, error) {
	var it types.StoredItinerary
	err := row.Scan(
		&it.ID, &it.OwnerID, &it.Destination, &it.StartDate, &it.EndDate, &it.Travellers, &it.Budget,
		&it.DailyStartTime, &it.DailyEndTime, &it.Plan, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PostgresItineraryRepo) Save(ctx context.Context, it *types.StoredItinerary) (*types.StoredItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "Save", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("owner.id", it.OwnerID),
	))
	defer span.End()

	query := `
        INSERT INTO itineraries (owner_id, travel_destination, start_date, end_date, travellers, budget,
                                 daily_start_time, daily_end_time, plan)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + itineraryColumns

	start := time.Now()
	saved, err := scanItinerary(r.db.QueryRow(ctx, query,
		it.OwnerID, it.Destination, it.StartDate, it.EndDate, it.Travellers, it.Budget,
		it.DailyStartTime, it.DailyEndTime, it.Plan,
	))
	observeQuery(ctx, "insert", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert itinerary", slog.String("ownerID", it.OwnerID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error saving itinerary: %w", err)
	}

	r.logger.InfoContext(ctx, "Itinerary saved", slog.String("ownerID", it.OwnerID), slog.String("id", saved.ID.String()))
	span.SetAttributes(attribute.String("itinerary.id", saved.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary saved")
	return saved, nil
}

func (r *PostgresItineraryRepo) ListByOwner(ctx context.Context, ownerID string) ([]types.StoredItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "ListByOwner", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("owner.id", ownerID),
	))
	defer span.End()

	query := `SELECT ` + itineraryColumns + `
        FROM itineraries
        WHERE owner_id = $1
        ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		observeQuery(ctx, "select", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing itineraries: %w", err)
	}
	defer rows.Close()

	list := []types.StoredItinerary{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			observeQuery(ctx, "select", start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("database error scanning itinerary: %w", err)
		}
		list = append(list, *it)
	}
	err = rows.Err()
	observeQuery(ctx, "select", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("database error listing itineraries: %w", err)
	}

	span.SetAttributes(attribute.Int("itineraries.count", len(list)))
	span.SetStatus(codes.Ok, "Itineraries listed")
	return list, nil
}

func (r *PostgresItineraryRepo) Get(ctx context.Context, ownerID string, id uuid.UUID) (*types.StoredItinerary, error) {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()

	query := `SELECT ` + itineraryColumns + `
        FROM itineraries
        WHERE id = $1 AND owner_id = $2`

	start := time.Now()
	it, err := scanItinerary(r.db.QueryRow(ctx, query, id, ownerID))
	observeQuery(ctx, "select", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, fmt.Errorf("itinerary %s: %w", id, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to fetch itinerary", slog.String("id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching itinerary: %w", err)
	}

	span.SetStatus(codes.Ok, "Itinerary fetched")
	return it, nil
}

func (r *PostgresItineraryRepo) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "itineraries"),
		attribute.String("itinerary.id", id.String()),
	))
	defer span.End()

	start := time.Now()
	tag, err := r.db.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND owner_id = $2`, id, ownerID)
	observeQuery(ctx, "delete", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete itinerary", slog.String("id", id.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB delete failed")
		return fmt.Errorf("database error deleting itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return fmt.Errorf("itinerary %s: %w", id, types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Itinerary deleted")
	return nil
}
