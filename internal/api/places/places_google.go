package places

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gplaces "google.golang.org/api/places/v1"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

const googleFieldMask = "places.displayName,places.formattedAddress,places.rating,places.types,places.priceLevel"

var _ PlacesProvider = (*GoogleClient)(nil)

// GoogleClient queries the Places API (New) searchText endpoint directly.
type GoogleClient struct {
	svc    *gplaces.Service
	logger *slog.Logger
}

func NewGoogleClient(ctx context.Context, apiKey string, logger *slog.Logger, opts ...option.ClientOption) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google places api key is not configured")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := gplaces.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}
	return &GoogleClient{svc: svc, logger: logger}, nil
}

func (c *GoogleClient) Search(ctx context.Context, q types.PlaceQuery) ([]types.PlaceCandidate, error) {
	ctx, span := otel.Tracer("PlacesGoogleClient").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("places.location", q.Location),
		attribute.String("places.query", q.Text),
	))
	defer span.End()

	resp, err := c.svc.Places.SearchText(&gplaces.GoogleMapsPlacesV1SearchTextRequest{TextQuery: q.Text}).
		Fields(googleapi.Field(googleFieldMask)).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.WarnContext(ctx, "Google places search failed", slog.String("query", q.Text), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("google places searchText: %w", err)
	}

	out := make([]types.PlaceCandidate, 0, len(resp.Places))
	for _, p := range resp.Places {
		if p == nil {
			continue
		}
		name := "Unknown"
		if p.DisplayName != nil && p.DisplayName.Text != "" {
			name = p.DisplayName.Text
		}
		out = append(out, types.PlaceCandidate{
			Name:       name,
			Address:    p.FormattedAddress,
			Rating:     p.Rating,
			Types:      p.Types,
			PriceLevel: NormalizePriceLevel(p.PriceLevel),
		})
	}
	span.SetAttributes(attribute.Int("places.results", len(out)))
	span.SetStatus(codes.Ok, "search done")
	return out, nil
}
