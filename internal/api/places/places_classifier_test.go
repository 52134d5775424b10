package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		place types.PlaceCandidate
		want  types.PlaceCategory
	}{
		{"restaurant type", types.PlaceCandidate{Name: "Jumbo", Types: []string{"seafood_restaurant"}}, types.CategoryFood},
		{"cafe type", types.PlaceCandidate{Name: "Corner", Types: []string{"cafe"}}, types.CategoryFood},
		{"hawker in name", types.PlaceCandidate{Name: "Maxwell Hawker Centre", Types: []string{"point_of_interest"}}, types.CategoryFood},
		{"name keyword is case-insensitive", types.PlaceCandidate{Name: "The Coffee Club"}, types.CategoryFood},
		{"museum", types.PlaceCandidate{Name: "National Museum", Types: []string{"museum", "tourist_attraction"}}, types.CategoryAttraction},
		{"park", types.PlaceCandidate{Name: "Gardens by the Bay", Types: []string{"park"}}, types.CategoryAttraction},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.place))
		})
	}
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		level  string
		want   types.BudgetTier
		wantOK bool
	}{
		{"PRICE_LEVEL_FREE", types.BudgetLow, true},
		{"PRICE_LEVEL_INEXPENSIVE", types.BudgetLow, true},
		{"MODERATE", types.BudgetMedium, true},
		{"price_level_expensive", types.BudgetHigh, true},
		{"PRICE_LEVEL_VERY_EXPENSIVE", types.BudgetVeryHigh, true},
		{"PRICE_LEVEL_UNSPECIFIED", "", false},
		{"0", "", false},
		{"", "", false},
		{"2", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			got, ok := PriceTier(tc.level)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKeepForBudget(t *testing.T) {
	low := types.PlaceCandidate{Name: "Hawker", PriceLevel: "PRICE_LEVEL_INEXPENSIVE"}
	high := types.PlaceCandidate{Name: "Odette", PriceLevel: "PRICE_LEVEL_EXPENSIVE"}
	unpriced := types.PlaceCandidate{Name: "Stall 12"}
	odd := types.PlaceCandidate{Name: "Mystery", PriceLevel: "3"}

	t.Run("ALL keeps everything", func(t *testing.T) {
		for _, p := range []types.PlaceCandidate{low, high, unpriced, odd} {
			assert.True(t, KeepForBudget(p, types.BudgetAll), p.Name)
		}
	})

	t.Run("LOW keeps low and unpriced", func(t *testing.T) {
		assert.True(t, KeepForBudget(low, types.BudgetLow))
		assert.False(t, KeepForBudget(high, types.BudgetLow))
		assert.True(t, KeepForBudget(unpriced, types.BudgetLow))
		assert.True(t, KeepForBudget(odd, types.BudgetLow))
	})

	t.Run("HIGH keeps high and unpriced", func(t *testing.T) {
		assert.False(t, KeepForBudget(low, types.BudgetHigh))
		assert.True(t, KeepForBudget(high, types.BudgetHigh))
		assert.True(t, KeepForBudget(unpriced, types.BudgetHigh))
	})

	t.Run("filter is a total function", func(t *testing.T) {
		tiers := []types.BudgetTier{types.BudgetLow, types.BudgetMedium, types.BudgetHigh, types.BudgetVeryHigh, types.BudgetAll}
		levels := []string{"", "0", "FREE", "PRICE_LEVEL_MODERATE", "VERY_EXPENSIVE", "garbage"}
		for _, tier := range tiers {
			for _, lvl := range levels {
				assert.NotPanics(t, func() { KeepForBudget(types.PlaceCandidate{PriceLevel: lvl}, tier) })
			}
			for _, unpriced := range []string{"", "0", "garbage"} {
				assert.True(t, KeepForBudget(types.PlaceCandidate{PriceLevel: unpriced}, tier),
					"tier %s level %q", tier, unpriced)
			}
		}
	})
}

func TestPartition(t *testing.T) {
	results := []types.PlaceCandidate{
		{Name: "National Museum", Types: []string{"museum"}},
		{Name: "Cheap Eats", Types: []string{"restaurant"}, PriceLevel: "PRICE_LEVEL_INEXPENSIVE"},
		{Name: "Fancy Dining", Types: []string{"restaurant"}, PriceLevel: "PRICE_LEVEL_VERY_EXPENSIVE"},
		{Name: "Hawker Stall"},
		{Name: "Botanic Gardens", Types: []string{"park"}, Address: "1 Cluny Rd"},
	}

	attractions, food := Partition(results, types.BudgetLow)
	require.Len(t, attractions, 2)
	assert.Equal(t, "National Museum", attractions[0].Name)
	assert.Equal(t, DefaultAddress, attractions[0].Address)
	assert.Equal(t, "1 Cluny Rd", attractions[1].Address)
	require.Len(t, food, 2)
	assert.Equal(t, "Cheap Eats", food[0].Name)
	require.NotNil(t, food[0].PriceTier)
	assert.Equal(t, types.BudgetLow, *food[0].PriceTier)
	assert.Equal(t, "Hawker Stall", food[1].Name)
	assert.Nil(t, food[1].PriceTier)
	assert.Equal(t, "No address available", food[1].Address)

	t.Run("blank address gets the default", func(t *testing.T) {
		_, food := Partition([]types.PlaceCandidate{{Name: "X Cafe", Address: "   "}}, types.BudgetAll)
		require.Len(t, food, 1)
		assert.Equal(t, "No address available", food[0].Address)
	})
}

func TestDedupByName(t *testing.T) {
	in := []types.PlaceCandidate{
		{Name: "A", Address: "first"},
		{Name: "B"},
		{Name: "A", Address: "second"},
		{Name: "a"},
	}

	once := DedupByName(in)
	require.Len(t, once, 3)
	assert.Equal(t, "first", once[0].Address)
	assert.Equal(t, []string{"A", "B", "a"}, []string{once[0].Name, once[1].Name, once[2].Name})

	assert.Equal(t, once, DedupByName(once))
}
