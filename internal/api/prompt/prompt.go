// Package prompt renders the itinerary generation instruction handed to the text generator.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

var itineraryTemplate = template.Must(template.New("itinerary").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(itineraryPrompt))

type promptData struct {
	Trip   types.TripRequest
	Prefs  types.TastePreferences
	Places string
}

// Compose builds the prompt. Output depends only on its arguments, so equal inputs give
// byte-identical prompts.
func Compose(prefs types.TastePreferences, bundle types.LocationBundle, trip types.TripRequest) (string, error) {
	if bundle.Attractions == nil {
		bundle.Attractions = []types.PlaceCandidate{}
	}
	if bundle.Food == nil {
		bundle.Food = []types.PlaceCandidate{}
	}
	places, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialising candidate places: %w", err)
	}

	var sb strings.Builder
	if err := itineraryTemplate.Execute(&sb, promptData{Trip: trip, Prefs: prefs, Places: string(places)}); err != nil {
		return "", fmt.Errorf("rendering itinerary prompt: %w", err)
	}
	return sb.String(), nil
}

const itineraryPrompt = `Create a detailed travel itinerary in JSON format for a trip to {{.Trip.Destination}} with the following specifications:

Travel Details:
- Number of travelers: {{.Trip.NumTravelers}}
- Budget: {{.Prefs.Budget}}
- Start Date: {{.Trip.StartDate}}
- End Date: {{.Trip.EndDate}}
- Daily Start Time: {{.Prefs.DailyStartTime}}
- Daily End Time: {{.Prefs.DailyEndTime}}

User Preferences:
- Travel Style: {{join .Prefs.TravelStyle ", "}}
- Travel Sites: {{join .Prefs.TravelSites ", "}}
- Dietary Restrictions: {{join .Prefs.Diet ", "}}

Available Places:
{{.Places}}

CRITICAL REQUIREMENTS:
1. The response MUST be in valid JSON format. This is the MOST important requirement.
2. The response MUST include a 'travelDetails' object with ALL the following fields:
   - destination: MUST be exactly "{{.Trip.Destination}}" (preserve this exact destination string)
   - number_of_travelers: {{.Trip.NumTravelers}}
   - budget: {{.Prefs.Budget}}
   - start_date: "{{.Trip.StartDate}}"
   - end_date: "{{.Trip.EndDate}}"
   - daily_start_time: "{{.Prefs.DailyStartTime}}"
   - daily_end_time: "{{.Prefs.DailyEndTime}}"

Important Requirements:
- Create a FULL-DAY itinerary for each day, including the last day. The last day is NOT a departure day.
- ALWAYS include AT LEAST two meals (lunch and dinner) in EACH day's itinerary.
- Balance the activities according to the user's preferences.
- Make sure all days have roughly the same number of activities.
- Respect the daily start and end times.
- PRIORITIZE using the places provided in the Available Places section first.
- Avoid repeating attractions and food places as much as possible throughout the itinerary.
- If the available places provided are not enough, you may suggest additional places.
- Adhere strictly to dietary restrictions but treat travel sites and travel style as lower priority if needed.
- ALWAYS suggest specific food places or restaurants. NEVER tell the user to "find a place" or "choose a restaurant" on their own.
- Format location names as proper names only. Do NOT include qualifiers like "(Suggested)" or descriptors like "- Optional: Evening Walk" in the location_name field. Put these details in the description field instead.
- Treat the user's travel style and travel sites preferences ONLY as guidelines. Include popular and must-see attractions that an average tourist would want to visit in {{.Trip.Destination}}, even if they don't match the user's stated preferences.
- For all food-related activities, ALWAYS use specific restaurant names (e.g., "Lotus Vegetarian Restaurant" or "Green Earth Cafe") instead of generic descriptions like "Local Food Stall" or "Vegetarian Food stall (alternatives)".
- NEVER use terms like "alternatives", "options", or "various" in the location name. Commit to a specific name.

Create a day-by-day itinerary in JSON format where each day is a key and the value is an array of activities.
Each activity MUST be an object with exactly these keys:
- "time": start time in 24-hour format, e.g. "09:00"
- "location_name": specific name, no qualifiers
- "description": detailed description of the activity
- "travel_time": travel time from the previous location, e.g. "1h 30mins" or "45mins"
- "duration": estimated duration, e.g. "2h" or "1h 15mins"
- "notes": any relevant notes (dietary options, accessibility)

IMPORTANT TIME REQUIREMENTS:
- Travel time MUST be specified in hours and minutes format (e.g., "1h 30mins" or "45mins") rather than just minutes
- Duration MUST be specified in hours and minutes format (e.g., "2h" or "1h 15mins") rather than just minutes
- If travel time is 0, use "0mins" (not "0h")
- NEVER use "0mins" for travel time unless activities are in the exact same location
- NEVER use "0mins" for duration
- Ensure activities don't overlap in time, accounting for both duration and travel time
- Do not use estimations of timings (e.g. "1-2h"). Always use specific times.

Format the response as a valid JSON object with days as keys and activities as values, plus the travelDetails object.

AGAIN, THE MOST CRITICAL REQUIREMENT: The entire response MUST be valid, parseable JSON. Do not include ANY explanatory text outside the JSON structure.
`
