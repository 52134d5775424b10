package preferences

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// Source looks up the raw preference record of an owner. A missing record is (nil, nil).
type Source interface {
	Fetch(ctx context.Context, ownerID, credential string) (*types.RawTastePreferences, error)
}

var _ Source = (*RemoteSource)(nil)

// RemoteSource reads preferences from the user service, forwarding the caller's credential.
type RemoteSource struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewRemoteSource(baseURL string, client *http.Client, logger *slog.Logger) *RemoteSource {
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type tastePreferencesEnvelope struct {
	TastePreferences *types.RawTastePreferences `json:"taste_preferences"`
}

func (s *RemoteSource) Fetch(ctx context.Context, ownerID, credential string) (*types.RawTastePreferences, error) {
	ctx, span := otel.Tracer("PreferencesClient").Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("owner.id", ownerID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Fetch"), slog.String("ownerID", ownerID))

	if credential == "" {
		span.SetStatus(codes.Error, "missing credential")
		return nil, fmt.Errorf("%w: no credential to forward", types.ErrUnauthenticated)
	}

	endpoint := fmt.Sprintf("%s/api/user/%s/taste-preferences", s.baseURL, url.PathEscape(ownerID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("building preferences request: %w", err)
	}
	req.Header.Set("Authorization", credential)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Preferences service unreachable", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("calling preferences service: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		l.WarnContext(ctx, "Preferences service rejected credential", slog.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "credential rejected")
		return nil, fmt.Errorf("%w: preferences service returned %d", types.ErrUnauthenticated, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		l.InfoContext(ctx, "No stored preferences, defaults will apply")
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		l.ErrorContext(ctx, "Preferences service error", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("preferences service returned %d", resp.StatusCode)
	}

	var envelope tastePreferencesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("decoding preferences response: %w", err)
	}

	l.DebugContext(ctx, "Fetched taste preferences", slog.Bool("present", envelope.TastePreferences != nil))
	span.SetStatus(codes.Ok, "preferences fetched")
	return envelope.TastePreferences, nil
}
