package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

func TestNormalize(t *testing.T) {
	t.Run("nil record yields defaults", func(t *testing.T) {
		got := Normalize(nil, types.BudgetMedium)
		assert.Equal(t, types.TastePreferences{
			TravelStyle:    []string{"Active"},
			TravelSites:    []string{"Nature Sites"},
			Diet:           []string{"None"},
			DailyStartTime: "08:30",
			DailyEndTime:   "22:00",
			Budget:         types.BudgetMedium,
		}, got)
	})

	t.Run("partial record keeps provided values", func(t *testing.T) {
		got := Normalize(&types.RawTastePreferences{
			TouristSites: []string{"Museums", " Shopping "},
			Diet:         []string{"Vegetarian"},
			StartTime:    "09:00",
		}, types.BudgetLow)

		assert.Equal(t, []string{"Active"}, got.TravelStyle)
		assert.Equal(t, []string{"Museums", "Shopping"}, got.TravelSites)
		assert.Equal(t, []string{"Vegetarian"}, got.Diet)
		assert.Equal(t, "09:00", got.DailyStartTime)
		assert.Equal(t, "22:00", got.DailyEndTime)
		assert.Equal(t, types.BudgetLow, got.Budget)
	})

	t.Run("blank and duplicate tags are dropped", func(t *testing.T) {
		got := Normalize(&types.RawTastePreferences{
			TouristSites: []string{"Museums", "", "Museums", "  "},
			Diet:         []string{"", " "},
		}, types.BudgetAll)

		assert.Equal(t, []string{"Museums"}, got.TravelSites)
		assert.Equal(t, []string{"None"}, got.Diet)
	})

	t.Run("malformed times fall back", func(t *testing.T) {
		got := Normalize(&types.RawTastePreferences{StartTime: "9am", EndTime: "25:00"}, types.BudgetAll)
		assert.Equal(t, "08:30", got.DailyStartTime)
		assert.Equal(t, "22:00", got.DailyEndTime)
	})

	t.Run("empty lists count as absent", func(t *testing.T) {
		got := Normalize(&types.RawTastePreferences{TravelStyle: []string{}, TouristSites: []string{}}, types.BudgetHigh)
		assert.Equal(t, []string{"Active"}, got.TravelStyle)
		assert.Equal(t, []string{"Nature Sites"}, got.TravelSites)
	})
}
