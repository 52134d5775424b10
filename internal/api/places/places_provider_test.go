package places

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

func TestProxyClient_Search(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("decodes results and price levels", func(t *testing.T) {
		var gotLocation, gotType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/places", r.URL.Path)
			gotLocation = r.URL.Query().Get("location")
			gotType = r.URL.Query().Get("type")
			_, _ = io.WriteString(w, `{"results":[
				{"name":"Lau Pa Sat","address":"18 Raffles Quay","rating":4.3,"types":["food"],"price_level":"PRICE_LEVEL_INEXPENSIVE"},
				{"name":"Merlion Park","address":"1 Fullerton Rd","rating":4.7,"types":["park"],"price_level":0},
				{"name":"Odette","address":"1 St Andrew's Rd","types":["restaurant"],"price_level":"VERY_EXPENSIVE"}
			]}`)
		}))
		t.Cleanup(srv.Close)

		c := NewProxyClient(srv.URL, srv.Client(), logger)
		got, err := c.Search(context.Background(), types.PlaceQuery{Location: "Singapore", Text: "Food in Singapore"})
		require.NoError(t, err)

		assert.Equal(t, "Singapore", gotLocation)
		assert.Equal(t, "Food in Singapore", gotType)
		require.Len(t, got, 3)
		assert.Equal(t, "INEXPENSIVE", got[0].PriceLevel)
		assert.Equal(t, "", got[1].PriceLevel)
		assert.Equal(t, "VERY_EXPENSIVE", got[2].PriceLevel)
		assert.Equal(t, 4.7, got[1].Rating)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Failed to fetch places"}`, http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		c := NewProxyClient(srv.URL, srv.Client(), logger)
		_, err := c.Search(context.Background(), types.PlaceQuery{Location: "X", Text: "Food in X"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("empty results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"results":[]}`)
		}))
		t.Cleanup(srv.Close)

		c := NewProxyClient(srv.URL, srv.Client(), logger)
		got, err := c.Search(context.Background(), types.PlaceQuery{Location: "X", Text: "Food in X"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
