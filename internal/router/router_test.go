package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-poi-itineraries/app/middleware"
	"github.com/FACorreiaa/go-poi-itineraries/config"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/preferences"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func setupRouterTest(t *testing.T, generateLimit int) (http.Handler, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	const secret = "router-secret"

	r := SetupRouter(&Config{
		ItineraryHandler:       itinerary.NewItineraryHandler(nil, okPinger{}, logger),
		PreferencesHandler:     preferences.NewPreferencesHandler(nil, logger),
		AuthenticateMiddleware: appMiddleware.Authenticate(logger, config.JWTConfig{SecretKey: secret}),
		AllowedOrigins:         []string{"http://localhost:5173"},
		GenerateLimit:          generateLimit,
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, appMiddleware.Claims{UserID: "owner-1"}).SignedString([]byte(secret))
	require.NoError(t, err)
	return r, "Bearer " + token
}

func TestSetupRouter(t *testing.T) {
	t.Run("health is public", func(t *testing.T) {
		r, _ := setupRouterTest(t, 0)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"up"`)
	})

	t.Run("itineraries require a token", func(t *testing.T) {
		r, _ := setupRouterTest(t, 0)
		for _, path := range []string{"/api/v1/itineraries", "/api/v1/preferences"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("generate is rate limited per owner", func(t *testing.T) {
		r, bearer := setupRouterTest(t, 1)
		send := func() int {
			// an empty body fails decoding before the service is reached
			req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/generate", strings.NewReader(""))
			req.Header.Set("Authorization", bearer)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			return rec.Code
		}
		assert.Equal(t, http.StatusBadRequest, send())
		assert.Equal(t, http.StatusTooManyRequests, send())
	})
}
