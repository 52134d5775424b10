package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/FACorreiaa/go-poi-itineraries/app/middleware"
	_ "github.com/FACorreiaa/go-poi-itineraries/docs"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/preferences"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler       *itinerary.ItineraryHandler
	PreferencesHandler     *preferences.PreferencesHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// GenerateLimit caps generation requests per owner per minute. Zero disables the limit.
	GenerateLimit int
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (request id, logger, recoverer) is applied in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", cfg.ItineraryHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Route("/itineraries", func(r chi.Router) {
				r.With(generateLimiter(cfg.GenerateLimit)).Post("/generate", cfg.ItineraryHandler.GenerateItinerary)
				r.Post("/", cfg.ItineraryHandler.CreateItinerary)
				r.Get("/", cfg.ItineraryHandler.ListItineraries)
				r.Get("/{id}", cfg.ItineraryHandler.GetItinerary)
				r.Get("/{id}/pdf", cfg.ItineraryHandler.DownloadItineraryPDF)
				r.Delete("/{id}", cfg.ItineraryHandler.DeleteItinerary)
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", cfg.PreferencesHandler.GetPreferences)
				r.Put("/", cfg.PreferencesHandler.UpdatePreferences)
				r.Delete("/", cfg.PreferencesHandler.DeletePreferences)
			})
		})
	})

	return r
}

// generateLimiter keys on the authenticated owner, so it must run after AuthenticateMiddleware.
func generateLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if owner, ok := appMiddleware.GetUserIDFromContext(r.Context()); ok {
				return owner, nil
			}
			return httprate.KeyByIP(r)
		}),
	)
}
