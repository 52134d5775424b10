package preferences

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

func newTestRemoteSource(t *testing.T, handler http.HandlerFunc) *RemoteSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteSource(srv.URL+"/", srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRemoteSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards credential and decodes envelope", func(t *testing.T) {
		var gotPath, gotAuth string
		src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"taste_preferences":{"travel_style":["Relaxed"],"tourist_sites":["Museums"],"diet":["Vegetarian"],"start_time":"09:00","end_time":"21:00"}}`)
		})

		raw, err := src.Fetch(ctx, "owner-1", "Bearer abc")
		require.NoError(t, err)
		require.NotNil(t, raw)
		assert.Equal(t, "/api/user/owner-1/taste-preferences", gotPath)
		assert.Equal(t, "Bearer abc", gotAuth)
		assert.Equal(t, []string{"Museums"}, raw.TouristSites)
		assert.Equal(t, []string{"Vegetarian"}, raw.Diet)
		assert.Equal(t, "09:00", raw.StartTime)
	})

	t.Run("not found means no record", func(t *testing.T) {
		src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		raw, err := src.Fetch(ctx, "owner-1", "Bearer abc")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("null envelope means no record", func(t *testing.T) {
		src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"taste_preferences":null}`)
		})

		raw, err := src.Fetch(ctx, "owner-1", "Bearer abc")
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run("rejected credential "+http.StatusText(status), func(t *testing.T) {
			src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			_, err := src.Fetch(ctx, "owner-1", "Bearer abc")
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrUnauthenticated))
		})
	}

	t.Run("missing credential never calls out", func(t *testing.T) {
		called := false
		src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := src.Fetch(ctx, "owner-1", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrUnauthenticated))
		assert.False(t, called)
	})

	t.Run("server error is surfaced", func(t *testing.T) {
		src := newTestRemoteSource(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := src.Fetch(ctx, "owner-1", "Bearer abc")
		require.Error(t, err)
		assert.False(t, errors.Is(err, types.ErrUnauthenticated))
		assert.Contains(t, err.Error(), "500")
	})
}
