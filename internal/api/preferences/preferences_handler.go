package preferences

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-poi-itineraries/app/middleware"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

type PreferencesHandler struct {
	service PreferencesService
	logger  *slog.Logger
}

func NewPreferencesHandler(service PreferencesService, logger *slog.Logger) *PreferencesHandler {
	if logger == nil {
		panic("PANIC: Attempting to create PreferencesHandler with nil logger!")
	}
	return &PreferencesHandler{
		service: service,
		logger:  logger,
	}
}

// PreferencesView pairs the stored record with what the pipeline would actually use.
type PreferencesView struct {
	TastePreferences *types.RawTastePreferences `json:"taste_preferences"`
	Effective        types.TastePreferences     `json:"effective"`
}

// GetPreferences godoc
// @Summary      Get taste preferences
// @Description  Returns the stored taste preferences of the caller and the normalized values used for generation.
// @Tags         Preferences
// @Produce      json
// @Success      200 {object} PreferencesView
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /preferences [get]
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "GetPreferences", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetPreferences"))

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	view := PreferencesView{}
	stored, err := h.service.GetStored(ctx, ownerID)
	switch {
	case err == nil:
		view.TastePreferences = &stored.RawTastePreferences
	case errors.Is(err, types.ErrNotFound):
	default:
		l.ErrorContext(ctx, "Failed to load preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve preferences")
		return
	}
	view.Effective = Normalize(view.TastePreferences, types.BudgetAll)

	span.SetStatus(codes.Ok, "preferences retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, view)
}

// UpdatePreferences godoc
// @Summary      Replace taste preferences
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Param        preferences body types.UpsertPreferencesParams true "Taste preferences"
// @Success      200 {object} PreferencesView
// @Failure      400 {object} api.Response "Bad Request"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "UpdatePreferences", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdatePreferences"))

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpsertPreferencesParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.service.Save(ctx, ownerID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		if errors.Is(err, ErrInvalidPreferences) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to save preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	span.SetStatus(codes.Ok, "preferences saved")
	api.WriteJSONResponse(w, r, http.StatusOK, PreferencesView{
		TastePreferences: &stored.RawTastePreferences,
		Effective:        Normalize(&stored.RawTastePreferences, types.BudgetAll),
	})
}

// DeletePreferences godoc
// @Summary      Reset taste preferences
// @Tags         Preferences
// @Success      204 "No Content"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "Not Found"
// @Security     BearerAuth
// @Router       /preferences [delete]
func (h *PreferencesHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PreferencesHandler").Start(r.Context(), "DeletePreferences", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/preferences"),
	))
	defer span.End()

	ownerID, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || ownerID == "" {
		span.SetStatus(codes.Error, "missing owner")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.Reset(ctx, ownerID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reset failed")
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "No stored preferences")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to reset preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to reset preferences")
		return
	}

	span.SetStatus(codes.Ok, "preferences reset")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
