package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// fakeProvider answers from a map keyed by query text and records every call.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string][]types.PlaceCandidate
	failures  map[string]error
	failAll   error
	calls     []string
}

func (f *fakeProvider) Search(_ context.Context, q types.PlaceQuery) ([]types.PlaceCandidate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q.Text)
	f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	if err := f.failures[q.Text]; err != nil {
		return nil, err
	}
	return f.responses[q.Text], nil
}

func (f *fakeProvider) sortedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func foodPlaces(prefix string, n int) []types.PlaceCandidate {
	out := make([]types.PlaceCandidate, n)
	for i := range out {
		out[i] = types.PlaceCandidate{Name: fmt.Sprintf("%s %d", prefix, i), Types: []string{"restaurant"}}
	}
	return out
}

func setupAggregatorTest(p PlacesProvider) *AggregatorServiceImpl {
	return NewAggregatorService(p, 0, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func prefsWith(sites, diet []string, budget types.BudgetTier) types.TastePreferences {
	return types.TastePreferences{TravelSites: sites, Diet: diet, Budget: budget}
}

func TestPrimaryQueries(t *testing.T) {
	t.Run("one site and a named diet", func(t *testing.T) {
		qs := PrimaryQueries("Singapore", prefsWith([]string{"Museums"}, []string{"Vegetarian"}, types.BudgetAll))
		var texts []string
		for _, q := range qs {
			texts = append(texts, q.Text)
			assert.Equal(t, "Singapore", q.Location)
		}
		assert.Equal(t, []string{
			"Museums in Singapore",
			"Vegetarian Food in Singapore",
			"Vegetarian restaurant in Singapore",
			"Best Vegetarian food in Singapore",
			"Vegetarian cafe in Singapore",
		}, texts)
		assert.Equal(t, types.PurposeInterest, qs[0].Purpose)
		assert.Equal(t, types.PurposeDiet, qs[1].Purpose)
		assert.Equal(t, types.PurposeBroadened, qs[4].Purpose)
	})

	t.Run("None diet issues a single generic query", func(t *testing.T) {
		qs := PrimaryQueries("Tokyo", prefsWith([]string{"Nature Sites", "Shopping"}, []string{"None"}, types.BudgetAll))
		require.Len(t, qs, 3)
		assert.Equal(t, "Nature Sites in Tokyo", qs[0].Text)
		assert.Equal(t, "Shopping in Tokyo", qs[1].Text)
		assert.Equal(t, "Food in Tokyo", qs[2].Text)
	})

	t.Run("mixed diets expand in order", func(t *testing.T) {
		qs := PrimaryQueries("Lisbon", prefsWith([]string{"Museums"}, []string{"None", "Vegetarian", "Halal", "Allergy"}, types.BudgetAll))
		var texts []string
		var diet int
		for _, q := range qs {
			texts = append(texts, q.Text)
			if q.Purpose != types.PurposeInterest {
				diet++
			}
		}
		assert.Equal(t, 1+4+4, diet)
		assert.Equal(t, []string{
			"Museums in Lisbon",
			"Food in Lisbon",
			"Vegetarian Food in Lisbon",
			"Vegetarian restaurant in Lisbon",
			"Best Vegetarian food in Lisbon",
			"Vegetarian cafe in Lisbon",
			"Halal Food in Lisbon",
			"Halal restaurant in Lisbon",
			"Best Halal food in Lisbon",
			"Halal cafe in Lisbon",
		}, texts)
		assert.Equal(t, types.PurposeDiet, qs[1].Purpose)
		assert.Equal(t, types.PurposeDiet, qs[6].Purpose)
		assert.Equal(t, types.PurposeBroadened, qs[9].Purpose)
	})

	t.Run("Allergy issues no query", func(t *testing.T) {
		qs := PrimaryQueries("Tokyo", prefsWith([]string{"Museums"}, []string{"Allergy"}, types.BudgetAll))
		require.Len(t, qs, 1)
		assert.Equal(t, "Museums in Tokyo", qs[0].Text)
	})
}

func TestAggregatorServiceImpl_Aggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("enough food skips backfill and keeps query order", func(t *testing.T) {
		fp := &fakeProvider{responses: map[string][]types.PlaceCandidate{
			"Museums in Singapore": {
				{Name: "National Museum", Types: []string{"museum"}},
				{Name: "Museum Cafe", Types: []string{"cafe"}},
			},
			"Parks in Singapore":           {{Name: "Gardens by the Bay", Types: []string{"park"}}},
			"Vegetarian Food in Singapore": foodPlaces("Veg", 3),
			"Vegetarian restaurant in Singapore": append(foodPlaces("Veg", 2), types.PlaceCandidate{
				Name: "Greendot", Types: []string{"restaurant"},
			}),
		}}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Singapore", prefsWith([]string{"Museums", "Parks"}, []string{"Vegetarian"}, types.BudgetAll))
		require.NoError(t, err)

		var attractions []string
		for _, a := range bundle.Attractions {
			attractions = append(attractions, a.Name)
		}
		assert.Equal(t, []string{"National Museum", "Gardens by the Bay"}, attractions)

		var food []string
		for _, f := range bundle.Food {
			food = append(food, f.Name)
		}
		assert.Equal(t, []string{"Museum Cafe", "Veg 0", "Veg 1", "Veg 2", "Greendot"}, food)
		assert.NotContains(t, fp.sortedCalls(), "Restaurants in Singapore")
		assert.Len(t, fp.sortedCalls(), 6)
	})

	t.Run("sparse food triggers backfill", func(t *testing.T) {
		fp := &fakeProvider{responses: map[string][]types.PlaceCandidate{
			"Museums in Oslo":      {{Name: "Munch", Types: []string{"museum"}}},
			"Food in Oslo":         foodPlaces("Oslo Food", 2),
			"Restaurants in Oslo":  append(foodPlaces("Oslo Food", 1), foodPlaces("Restaurant", 2)...),
			"Popular food in Oslo": foodPlaces("Popular", 1),
			"Cafes in Oslo":        {{Name: "Fuglen Coffee"}, {Name: "Vigeland Park", Types: []string{"park"}}},
		}}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Oslo", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		require.NoError(t, err)

		var food []string
		for _, f := range bundle.Food {
			food = append(food, f.Name)
		}
		assert.Equal(t, []string{"Oslo Food 0", "Oslo Food 1", "Restaurant 0", "Restaurant 1", "Popular 0", "Fuglen Coffee"}, food)
		require.Len(t, bundle.Attractions, 1, "backfill contributes food only")
		assert.Contains(t, fp.sortedCalls(), "Cafes in Oslo")
	})

	t.Run("failed backfill is not fatal", func(t *testing.T) {
		boom := errors.New("upstream 500")
		fp := &fakeProvider{
			responses: map[string][]types.PlaceCandidate{"Museums in Oslo": {{Name: "Munch", Types: []string{"museum"}}}},
			failures: map[string]error{
				"Restaurants in Oslo":  boom,
				"Popular food in Oslo": boom,
				"Cafes in Oslo":        boom,
			},
		}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Oslo", prefsWith([]string{"Museums"}, []string{"Allergy"}, types.BudgetAll))
		require.NoError(t, err)
		assert.Len(t, bundle.Attractions, 1)
		assert.Empty(t, bundle.Food)
	})

	t.Run("budget filter applies to food only", func(t *testing.T) {
		fp := &fakeProvider{responses: map[string][]types.PlaceCandidate{
			"Museums in Paris": {{Name: "Louvre", Types: []string{"museum"}, PriceLevel: "PRICE_LEVEL_EXPENSIVE"}},
			"Food in Paris": {
				{Name: "Le Cheap", Types: []string{"restaurant"}, PriceLevel: "PRICE_LEVEL_INEXPENSIVE"},
				{Name: "Le Cher", Types: []string{"restaurant"}, PriceLevel: "PRICE_LEVEL_EXPENSIVE"},
				{Name: "Le Inconnu", Types: []string{"restaurant"}},
			},
		}}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Paris", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetLow))
		require.NoError(t, err)
		require.Len(t, bundle.Attractions, 1)
		var food []string
		for _, f := range bundle.Food {
			food = append(food, f.Name)
		}
		assert.Equal(t, []string{"Le Cheap", "Le Inconnu"}, food)
	})

	t.Run("diet queries contribute food only", func(t *testing.T) {
		fp := &fakeProvider{responses: map[string][]types.PlaceCandidate{
			"Museums in Singapore": {{Name: "National Museum", Types: []string{"museum"}}},
			"Vegetarian Food in Singapore": append(foodPlaces("Veg", 5), types.PlaceCandidate{
				Name: "Vegan Society HQ", Types: []string{"point_of_interest"},
			}),
			"Best Vegetarian food in Singapore": {{Name: "Chinatown Heritage Centre", Types: []string{"tourist_attraction"}}},
		}}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Singapore", prefsWith([]string{"Museums"}, []string{"Vegetarian"}, types.BudgetAll))
		require.NoError(t, err)

		var attractions []string
		for _, a := range bundle.Attractions {
			attractions = append(attractions, a.Name)
		}
		assert.Equal(t, []string{"National Museum"}, attractions)
		for _, f := range bundle.Food {
			assert.NotEqual(t, "Vegan Society HQ", f.Name)
		}
	})

	t.Run("one failing query is tolerated", func(t *testing.T) {
		fp := &fakeProvider{
			responses: map[string][]types.PlaceCandidate{"Food in Rome": foodPlaces("Trattoria", 5)},
			failures:  map[string]error{"Museums in Rome": errors.New("timeout")},
		}
		svc := setupAggregatorTest(fp)

		bundle, err := svc.Aggregate(ctx, "Rome", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		require.NoError(t, err)
		assert.Empty(t, bundle.Attractions)
		assert.Len(t, bundle.Food, 5)
	})

	t.Run("all queries failing is LocationDataUnavailable", func(t *testing.T) {
		fp := &fakeProvider{failAll: errors.New("connection refused")}
		svc := setupAggregatorTest(fp)

		_, err := svc.Aggregate(ctx, "Rome", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrLocationDataUnavailable))
		assert.Len(t, fp.sortedCalls(), 5, "primary and backfill were both attempted")
	})

	t.Run("blank destination", func(t *testing.T) {
		svc := setupAggregatorTest(&fakeProvider{})
		_, err := svc.Aggregate(ctx, "  ", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		assert.True(t, errors.Is(err, types.ErrLocationDataUnavailable))
	})

	t.Run("no provider configured", func(t *testing.T) {
		svc := setupAggregatorTest(nil)
		_, err := svc.Aggregate(ctx, "Rome", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		assert.True(t, errors.Is(err, types.ErrLocationDataUnavailable))
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		svc := setupAggregatorTest(&fakeProvider{})
		_, err := svc.Aggregate(cctx, "Rome", prefsWith([]string{"Museums"}, []string{"None"}, types.BudgetAll))
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
