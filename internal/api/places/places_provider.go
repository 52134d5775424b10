package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// PlacesProvider runs one text search for a destination.
type PlacesProvider interface {
	Search(ctx context.Context, q types.PlaceQuery) ([]types.PlaceCandidate, error)
}

var _ PlacesProvider = (*ProxyClient)(nil)

// ProxyClient talks to the location service that fronts the places API.
type ProxyClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewProxyClient(baseURL string, client *http.Client, logger *slog.Logger) *ProxyClient {
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type proxyPlace struct {
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	Rating     float64         `json:"rating"`
	Types      []string        `json:"types"`
	PriceLevel json.RawMessage `json:"price_level"`
}

type proxyResponse struct {
	Results []proxyPlace `json:"results"`
}

func (c *ProxyClient) Search(ctx context.Context, q types.PlaceQuery) ([]types.PlaceCandidate, error) {
	ctx, span := otel.Tracer("PlacesProxyClient").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("places.location", q.Location),
		attribute.String("places.query", q.Text),
	))
	defer span.End()

	params := url.Values{}
	params.Set("location", q.Location)
	params.Set("type", q.Text)
	endpoint := c.baseURL + "/api/places?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building places request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("calling places service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "Places service error",
			slog.String("query", q.Text), slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("places service returned %d", resp.StatusCode)
	}

	var decoded proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("decoding places response: %w", err)
	}

	out := make([]types.PlaceCandidate, 0, len(decoded.Results))
	for _, p := range decoded.Results {
		out = append(out, types.PlaceCandidate{
			Name:       p.Name,
			Address:    p.Address,
			Rating:     p.Rating,
			Types:      p.Types,
			PriceLevel: rawPriceLevel(p.PriceLevel),
		})
	}
	span.SetAttributes(attribute.Int("places.results", len(out)))
	span.SetStatus(codes.Ok, "search done")
	return out, nil
}

// rawPriceLevel accepts the enum string or a bare number.
func rawPriceLevel(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return NormalizePriceLevel(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return NormalizePriceLevel(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return ""
}
