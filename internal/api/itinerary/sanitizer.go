package itinerary

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

//go:embed itinerary.schema.json
var itinerarySchemaJSON string

var itinerarySchema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(itinerarySchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("itinerary schema: %v", err))
	}
	return s
}()

var errNoDays = errors.New("document has no day entries")

// Sanitize strips code fences and any prose around the outermost JSON object.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```JSON"):
		s = strings.TrimPrefix(s, "```JSON")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// Validate turns raw model output into a ParsedPlan, or a MalformedOutput when it is not a
// JSON object with at least one day. Missing travel details are rebuilt from the request.
// Schema deviations are reported, never fatal.
func Validate(raw string, trip types.TripRequest, prefs types.TastePreferences) types.GenerationResult {
	cleaned := Sanitize(raw)

	plan, hasDetails, err := types.DecodeItineraryPlan([]byte(cleaned))
	if err != nil {
		return types.MalformedOutput{Raw: raw, Err: fmt.Errorf("parsing itinerary JSON: %w", err)}
	}
	if len(plan.Days) == 0 {
		return types.MalformedOutput{Raw: raw, Err: errNoDays}
	}

	if !hasDetails {
		plan.TravelDetails = types.NewTravelDetails(trip, prefs)
	}

	return types.ParsedPlan{
		Plan:              plan,
		FoodActivities:    plan.FoodActivities(),
		SchemaIssues:      SchemaIssues(plan),
		DetailsBackfilled: !hasDetails,
	}
}

// SchemaIssues checks the normalized plan against the itinerary schema.
func SchemaIssues(plan *types.ItineraryPlan) []string {
	doc, err := plan.MarshalJSON()
	if err != nil {
		return []string{err.Error()}
	}
	result, err := itinerarySchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return []string{fmt.Sprintf("schema validation error: %v", err)}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		issues[i] = desc.String()
	}
	return issues
}
