package itinerary

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

const mondayOnly = `{"Monday":[{"time":"09:00","location_name":"Gardens by the Bay","description":"Walk the Supertree Grove","travel_time":"30mins","duration":"2h"},{"time":"12:00","location_name":"Lau Pa Sat Food Centre","description":"Lunch","travel_time":"20mins","duration":"1h"}]}`

func sampleTrip() (types.TripRequest, types.TastePreferences) {
	trip := types.TripRequest{
		Destination:  "Singapore",
		NumTravelers: 2,
		StartDate:    "2025-06-02",
		EndDate:      "2025-06-02",
		Budget:       types.BudgetMedium,
	}
	prefs := types.TastePreferences{
		TravelStyle:    []string{"Active"},
		TravelSites:    []string{"Nature Sites"},
		Diet:           []string{"None"},
		DailyStartTime: "08:30",
		DailyEndTime:   "22:00",
		Budget:         types.BudgetMedium,
	}
	return trip, prefs
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"surrounding whitespace", "\n\n  {\"a\":1}  \n", `{"a":1}`},
		{"prose around object", "Here is your plan:\n{\"a\":{\"b\":2}}\nEnjoy!", `{"a":{"b":2}}`},
		{"no object", "I cannot help with that.", "I cannot help with that."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}

	t.Run("fenced output parses like the bare object", func(t *testing.T) {
		var bare, fenced interface{}
		require.NoError(t, json.Unmarshal([]byte(Sanitize(mondayOnly)), &bare))
		require.NoError(t, json.Unmarshal([]byte(Sanitize("```json\n"+mondayOnly+"\n```")), &fenced))
		assert.Equal(t, bare, fenced)
	})
}

func TestValidate(t *testing.T) {
	trip, prefs := sampleTrip()

	t.Run("missing travel details are backfilled", func(t *testing.T) {
		res := Validate(mondayOnly, trip, prefs)
		parsed, ok := res.(types.ParsedPlan)
		require.True(t, ok, "expected ParsedPlan, got %T", res)

		assert.True(t, parsed.DetailsBackfilled)
		assert.Equal(t, types.TravelDetails{
			Destination:       "Singapore",
			NumberOfTravelers: 2,
			Budget:            "MEDIUM",
			StartDate:         "2025-06-02",
			EndDate:           "2025-06-02",
			DailyStartTime:    "08:30",
			DailyEndTime:      "22:00",
		}, parsed.Plan.TravelDetails)
		require.Len(t, parsed.Plan.Days, 1)
		assert.Equal(t, "Monday", parsed.Plan.Days[0].Label)
		assert.Equal(t, []string{"Lau Pa Sat Food Centre"}, parsed.FoodActivities)
		assert.Empty(t, parsed.SchemaIssues)
	})

	t.Run("model travel details are kept", func(t *testing.T) {
		raw := "```json\n" + `{"day1":[{"time":"09:00","location_name":"Museum","description":"","travel_time":"10mins","duration":"1h"}],
			"travelDetails":{"destination":"Singapore, SG","number_of_travelers":"3","budget":"LOW","start_date":"2025-06-02","end_date":"2025-06-03","daily_start_time":"09:00","daily_end_time":"21:00"}}` + "\n```"
		parsed, ok := Validate(raw, trip, prefs).(types.ParsedPlan)
		require.True(t, ok)
		assert.False(t, parsed.DetailsBackfilled)
		assert.Equal(t, "Singapore, SG", parsed.Plan.TravelDetails.Destination)
		assert.Equal(t, 3, parsed.Plan.TravelDetails.NumberOfTravelers)
		assert.Empty(t, parsed.FoodActivities)
	})

	t.Run("nested itinerary object supplies the days", func(t *testing.T) {
		raw := `{"itinerary":{"Day 1":[{"time":"10:00","location_name":"Cafe Nero","travel_time":"0mins","duration":"45mins"}],"Day 2":[{"time":"10:00","location_name":"Zoo","travel_time":"30mins","duration":"3h"}]}}`
		parsed, ok := Validate(raw, trip, prefs).(types.ParsedPlan)
		require.True(t, ok)
		require.Len(t, parsed.Plan.Days, 2)
		assert.Equal(t, "Day 1", parsed.Plan.Days[0].Label)
		assert.Equal(t, "Day 2", parsed.Plan.Days[1].Label)
		assert.Equal(t, []string{"Cafe Nero"}, parsed.FoodActivities)
	})

	t.Run("prose is malformed output", func(t *testing.T) {
		res := Validate("Sorry, I can't create that itinerary.", trip, prefs)
		m, ok := res.(types.MalformedOutput)
		require.True(t, ok)
		assert.Equal(t, "Sorry, I can't create that itinerary.", m.Raw)
		assert.Error(t, m.Err)
	})

	t.Run("object without days is malformed", func(t *testing.T) {
		m, ok := Validate(`{"message":"done"}`, trip, prefs).(types.MalformedOutput)
		require.True(t, ok)
		assert.True(t, errors.Is(m.Err, errNoDays))
	})

	t.Run("schema issues do not block", func(t *testing.T) {
		raw := `{"Monday":[{"time":"morning","location_name":"","travel_time":"soon","duration":"0mins"}]}`
		parsed, ok := Validate(raw, trip, prefs).(types.ParsedPlan)
		require.True(t, ok)
		assert.NotEmpty(t, parsed.SchemaIssues)
	})
}
