package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-poi-itineraries/app/db"
	appMiddleware "github.com/FACorreiaa/go-poi-itineraries/app/middleware"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

type ItineraryHandler struct {
	service ItineraryService
	db      database.Pinger
	logger  *slog.Logger
}

func NewItineraryHandler(service ItineraryService, db database.Pinger, logger *slog.Logger) *ItineraryHandler {
	if logger == nil {
		panic("PANIC: Attempting to create ItineraryHandler with nil logger!")
	}
	return &ItineraryHandler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

func startSpan(r *http.Request, name, route string) (context.Context, trace.Span) {
	return otel.Tracer("ItineraryHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
}

// Health godoc
// @Summary      Service health
// @Tags         Health
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func (h *ItineraryHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{Status: "ok", Database: "up"}
	if h.db == nil {
		resp.Database = "unknown"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "Database ping failed", slog.Any("error", err))
			resp.Database = "down"
		}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GenerateItinerary godoc
// @Summary      Generate an itinerary
// @Description  Resolves the caller's preferences, gathers candidate places and asks the language model for a day-by-day plan.
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        request body api.GenerateItineraryRequest true "Trip parameters"
// @Success      200 {object} api.GenerateItineraryResponse
// @Failure      400 {object} api.PipelineErrorResponse "Invalid trip request"
// @Failure      401 {object} api.PipelineErrorResponse "Preferences unavailable"
// @Failure      502 {object} api.PipelineErrorResponse "Generation failed"
// @Failure      503 {object} api.PipelineErrorResponse "Location data unavailable"
// @Security     BearerAuth
// @Router       /itineraries/generate [post]
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GenerateItinerary", "/itineraries/generate")
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	credential, _ := appMiddleware.GetCredentialFromContext(ctx)

	var req api.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	budget, err := types.ParseBudgetTier(req.Budget)
	if err != nil {
		span.SetStatus(codes.Error, "bad budget")
		api.ErrorResponseWithDetails(w, r, http.StatusBadRequest, err.Error(), map[string]interface{}{
			"kind": types.ErrorKindName(types.ErrInvalidTripRequest),
		})
		return
	}

	trip := types.TripRequest{
		Destination:  strings.TrimSpace(req.Destination),
		NumTravelers: req.NumTravelers,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Budget:       budget,
	}
	owner := types.Owner{ID: ownerID, Credential: credential}

	var gen *types.GeneratedItinerary
	if req.Save {
		gen, err = h.service.GenerateAndSave(ctx, owner, trip)
	} else {
		gen, err = h.service.Generate(ctx, owner, trip)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.writePipelineError(w, r, trip, err)
		return
	}

	days, err := gen.Plan.DaysJSON()
	if err != nil {
		l.ErrorContext(ctx, "Failed to encode itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to encode itinerary")
		return
	}
	details, err := json.Marshal(gen.Plan.TravelDetails)
	if err != nil {
		l.ErrorContext(ctx, "Failed to encode travel details", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to encode itinerary")
		return
	}

	states := make([]string, len(gen.States))
	for i, s := range gen.States {
		states[i] = string(s)
	}

	span.SetStatus(codes.Ok, "itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, api.GenerateItineraryResponse{
		Itinerary:      days,
		TravelDetails:  details,
		FoodActivities: gen.FoodActivities,
		SchemaIssues:   gen.SchemaIssues,
		States:         states,
		Saved:          gen.ItineraryID != nil,
		ItineraryID:    gen.ItineraryID,
	})
}

func (h *ItineraryHandler) writePipelineError(w http.ResponseWriter, r *http.Request, trip types.TripRequest, err error) {
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		api.ErrorResponse(w, r, status, "Itinerary generation was cancelled")
		return
	}

	status, message := http.StatusInternalServerError, "Failed to generate itinerary"
	switch {
	case errors.Is(pe.Kind, types.ErrInvalidTripRequest):
		status, message = http.StatusBadRequest, "Invalid trip request"
	case errors.Is(pe.Kind, types.ErrPreferencesUnavailable):
		status, message = http.StatusUnauthorized, "Failed to fetch user preferences"
	case errors.Is(pe.Kind, types.ErrLocationDataUnavailable):
		status, message = http.StatusServiceUnavailable, "Failed to fetch location data"
		if trip.Destination == "" {
			status = http.StatusBadRequest
		}
	case errors.Is(pe.Kind, types.ErrGenerationProvider):
		status, message = http.StatusBadGateway, "Failed to generate itinerary"
	case errors.Is(pe.Kind, types.ErrMalformedGenerationOutput):
		status, message = http.StatusBadGateway, "Failed to parse itinerary response"
	}

	extra := map[string]interface{}{
		"kind":    pe.KindName(),
		"state":   string(pe.State),
		"details": pe.Detail,
	}
	if pe.RawResponse != "" {
		extra["rawResponse"] = pe.RawResponse
	}
	api.ErrorResponseWithDetails(w, r, status, message, extra)
}

// CreateItinerary godoc
// @Summary      Store an itinerary
// @Tags         Itineraries
// @Accept       json
// @Produce      json
// @Param        request body api.CreateItineraryRequest true "Itinerary and travel details"
// @Success      201 {object} types.StoredItinerary
// @Failure      400 {object} api.Response "Bad Request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /itineraries [post]
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CreateItinerary", "/itineraries")
	defer span.End()

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req api.CreateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.service.Create(ctx, ownerID, req.Itinerary, req.TravelDetails)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		if errors.Is(err, ErrInvalidItinerary) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to store itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save itinerary")
		return
	}

	span.SetStatus(codes.Ok, "itinerary stored")
	api.WriteJSONResponse(w, r, http.StatusCreated, saved)
}

// ListItineraries godoc
// @Summary      List own itineraries, newest first
// @Tags         Itineraries
// @Produce      json
// @Success      200 {array} types.StoredItinerary
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /itineraries [get]
func (h *ItineraryHandler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "ListItineraries", "/itineraries")
	defer span.End()

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	list, err := h.service.List(ctx, ownerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve itineraries")
		return
	}

	span.SetStatus(codes.Ok, "itineraries listed")
	api.WriteJSONResponse(w, r, http.StatusOK, list)
}

// GetItinerary godoc
// @Summary      Get one of the caller's itineraries
// @Tags         Itineraries
// @Produce      json
// @Param        id path string true "Itinerary ID"
// @Success      200 {object} types.StoredItinerary
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /itineraries/{id} [get]
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetItinerary", "/itineraries/{id}")
	defer span.End()

	it, ok := h.loadOwned(w, r.WithContext(ctx))
	if !ok {
		span.SetStatus(codes.Error, "not loaded")
		return
	}
	span.SetStatus(codes.Ok, "itinerary fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// DownloadItineraryPDF godoc
// @Summary      Download an itinerary as PDF
// @Tags         Itineraries
// @Produce      application/pdf
// @Param        id path string true "Itinerary ID"
// @Success      200 {file} binary
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /itineraries/{id}/pdf [get]
func (h *ItineraryHandler) DownloadItineraryPDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "DownloadItineraryPDF", "/itineraries/{id}/pdf")
	defer span.End()

	it, ok := h.loadOwned(w, r.WithContext(ctx))
	if !ok {
		span.SetStatus(codes.Error, "not loaded")
		return
	}

	doc, err := RenderPDF(it)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render PDF", slog.String("id", it.ID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render itinerary")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="itinerary-%s.pdf"`, it.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.ErrorContext(ctx, "Failed to write PDF", slog.Any("error", err))
	}
	span.SetStatus(codes.Ok, "pdf rendered")
}

// DeleteItinerary godoc
// @Summary      Delete one of the caller's itineraries
// @Tags         Itineraries
// @Param        id path string true "Itinerary ID"
// @Success      204 "No Content"
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /itineraries/{id} [delete]
func (h *ItineraryHandler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "DeleteItinerary", "/itineraries/{id}")
	defer span.End()

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(ctx, ownerID, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete itinerary")
		return
	}

	span.SetStatus(codes.Ok, "itinerary deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// loadOwned resolves {id} for the caller and writes the error response itself.
func (h *ItineraryHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*types.StoredItinerary, bool) {
	ctx := r.Context()
	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	id, err := api.UUIDParam(r, "id")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	it, err := h.service.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return nil, false
		}
		h.logger.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve itinerary")
		return nil, false
	}
	return it, true
}
