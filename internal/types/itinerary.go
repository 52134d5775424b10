package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Owner identifies the caller of one pipeline run. Credential is forwarded, never verified here.
type Owner struct {
	ID         string
	Credential string
}

// TripRequest holds the caller-supplied trip parameters for one generation request.
type TripRequest struct {
	Destination  string     `json:"destination"`
	NumTravelers int        `json:"numTravelers"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Budget       BudgetTier `json:"budget"`
}

// Validate checks everything except the destination, whose absence is a location-data failure.
func (t TripRequest) Validate() error {
	if t.NumTravelers <= 0 {
		return fmt.Errorf("%w: numTravelers must be positive", ErrInvalidTripRequest)
	}
	if !t.Budget.Valid() {
		return fmt.Errorf("%w: unknown budget %q", ErrInvalidTripRequest, t.Budget)
	}
	start, err := time.Parse(dateLayout, t.StartDate)
	if err != nil {
		return fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidTripRequest)
	}
	end, err := time.Parse(dateLayout, t.EndDate)
	if err != nil {
		return fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidTripRequest)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidTripRequest)
	}
	return nil
}

// TravelDetails is the echo-back summary every itinerary must carry.
type TravelDetails struct {
	Destination       string `json:"destination"`
	NumberOfTravelers int    `json:"number_of_travelers"`
	Budget            string `json:"budget"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	DailyStartTime    string `json:"daily_start_time"`
	DailyEndTime      string `json:"daily_end_time"`
}

// NewTravelDetails builds the summary from the request and the normalized preferences.
func NewTravelDetails(trip TripRequest, prefs TastePreferences) TravelDetails {
	return TravelDetails{
		Destination:       trip.Destination,
		NumberOfTravelers: trip.NumTravelers,
		Budget:            string(trip.Budget),
		StartDate:         trip.StartDate,
		EndDate:           trip.EndDate,
		DailyStartTime:    prefs.DailyStartTime,
		DailyEndTime:      prefs.DailyEndTime,
	}
}

func (d *TravelDetails) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("travel details: %w", err)
	}
	d.Destination = pickText(fields, "destination")
	d.Budget = pickText(fields, "budget")
	d.StartDate = pickText(fields, "start_date", "startDate")
	d.EndDate = pickText(fields, "end_date", "endDate")
	d.DailyStartTime = pickText(fields, "daily_start_time", "dailyStartTime", "start_time")
	d.DailyEndTime = pickText(fields, "daily_end_time", "dailyEndTime", "end_time")
	d.NumberOfTravelers = pickInt(fields, "number_of_travelers", "numberOfTravelers", "num_travelers", "numTravelers", "travelers")
	return nil
}

// Activity is a single scheduled stop within a day.
type Activity struct {
	Time         string `json:"time"`
	LocationName string `json:"location_name"`
	Description  string `json:"description"`
	TravelTime   string `json:"travel_time"`
	Duration     string `json:"duration"`
	Notes        string `json:"notes,omitempty"`
}

// UnmarshalJSON accepts the key spellings models commonly produce.
func (a *Activity) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Activity{Description: s}
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("activity: %w", err)
	}
	a.Time = pickText(fields, "time", "Time", "start_time")
	a.LocationName = pickText(fields, "location_name", "locationName", "location", "Location name", "name")
	a.Description = pickText(fields, "description", "Description")
	a.TravelTime = pickText(fields, "travel_time", "travelTime", "travel_time_from_previous", "travelTimeFromPrevious")
	a.Duration = pickText(fields, "duration", "estimated_duration", "estimatedDuration", "Duration")
	a.Notes = pickText(fields, "notes", "Notes", "relevant_notes")
	return nil
}

// DayPlan keeps the day label the model used along with its activities.
type DayPlan struct {
	Label      string
	Activities []Activity
}

// ItineraryPlan is the validated itinerary. It marshals as one object keyed by day label,
// plus travelDetails.
type ItineraryPlan struct {
	Days          []DayPlan
	TravelDetails TravelDetails
}

// DaysJSON encodes only the day entries, in model order.
func (p ItineraryPlan) DaysJSON() ([]byte, error) {
	return p.encode(false)
}

func (p ItineraryPlan) MarshalJSON() ([]byte, error) {
	return p.encode(true)
}

func (p ItineraryPlan) encode(withDetails bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range p.Days {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(day.Label)
		if err != nil {
			return nil, err
		}
		activities := day.Activities
		if activities == nil {
			activities = []Activity{}
		}
		val, err := json.Marshal(activities)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	if withDetails {
		if len(p.Days) > 0 {
			buf.WriteByte(',')
		}
		details, err := json.Marshal(p.TravelDetails)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`"travelDetails":`)
		buf.Write(details)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *ItineraryPlan) UnmarshalJSON(data []byte) error {
	plan, _, err := DecodeItineraryPlan(data)
	if err != nil {
		return err
	}
	*p = *plan
	return nil
}

// DecodeItineraryPlan parses an itinerary document keeping the day order. Days are read from
// a nested "itinerary" object when present, otherwise from every top-level array value.
// hasDetails reports whether the document carried travelDetails/travel_details.
func DecodeItineraryPlan(data []byte) (plan *ItineraryPlan, hasDetails bool, err error) {
	fields, err := decodeOrderedObject(data)
	if err != nil {
		return nil, false, err
	}

	plan = &ItineraryPlan{}
	dayFields := fields
	for _, f := range fields {
		switch f.key {
		case "travelDetails", "travel_details":
			if hasDetails || !isObject(f.value) {
				continue
			}
			if err := json.Unmarshal(f.value, &plan.TravelDetails); err != nil {
				return nil, false, err
			}
			hasDetails = true
		case "itinerary":
			if nested, nestedErr := decodeOrderedObject(f.value); nestedErr == nil {
				dayFields = nested
			}
		}
	}

	for _, f := range dayFields {
		if f.key == "travelDetails" || f.key == "travel_details" || f.key == "itinerary" {
			continue
		}
		activities, ok, err := decodeDay(f.value)
		if err != nil {
			return nil, false, fmt.Errorf("day %q: %w", f.key, err)
		}
		if !ok {
			continue
		}
		plan.Days = append(plan.Days, DayPlan{Label: f.key, Activities: activities})
	}
	return plan, hasDetails, nil
}

func decodeDay(raw json.RawMessage) ([]Activity, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	switch trimmed[0] {
	case '[':
		activities := []Activity{}
		if err := json.Unmarshal(trimmed, &activities); err != nil {
			return nil, false, err
		}
		return activities, true, nil
	case '{':
		var wrapped struct {
			Activities *[]Activity `json:"activities"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Activities == nil {
			return nil, false, nil
		}
		return *wrapped.Activities, true, nil
	default:
		return nil, false, nil
	}
}

// FoodKeywordsInActivities are the substrings that mark an activity as food related.
var FoodKeywordsInActivities = []string{"food", "restaurant", "lunch", "dinner", "vegetarian", "cafe", "breakfast"}

// FoodActivities lists location names of activities that look food related.
func (p ItineraryPlan) FoodActivities() []string {
	found := []string{}
	for _, day := range p.Days {
		for _, a := range day.Activities {
			name := strings.ToLower(a.LocationName)
			for _, kw := range FoodKeywordsInActivities {
				if strings.Contains(name, kw) {
					found = append(found, a.LocationName)
					break
				}
			}
		}
	}
	return found
}

// GenerationResult is the outcome of validating raw model text: ParsedPlan or MalformedOutput.
type GenerationResult interface {
	isGenerationResult()
}

type ParsedPlan struct {
	Plan              *ItineraryPlan
	FoodActivities    []string
	SchemaIssues      []string
	DetailsBackfilled bool
}

type MalformedOutput struct {
	Raw string
	Err error
}

func (ParsedPlan) isGenerationResult()      {}
func (MalformedOutput) isGenerationResult() {}

// PipelineState is a stage of one itinerary generation run.
type PipelineState string

const (
	StateStart               PipelineState = "START"
	StatePreferencesResolved PipelineState = "PREFERENCES_RESOLVED"
	StateLocationsAggregated PipelineState = "LOCATIONS_AGGREGATED"
	StatePromptBuilt         PipelineState = "PROMPT_BUILT"
	StateGenerationCalled    PipelineState = "GENERATION_CALLED"
	StateValidated           PipelineState = "VALIDATED"
	StateDone                PipelineState = "DONE"
	StateFailed              PipelineState = "FAILED"
)

// GeneratedItinerary is what the pipeline hands back on success.
type GeneratedItinerary struct {
	Plan            *ItineraryPlan
	FoodActivities  []string
	SchemaIssues    []string
	AttractionCount int
	FoodCount       int
	States          []PipelineState
	ItineraryID     *uuid.UUID
}

// StoredItinerary is a persisted itinerary row.
type StoredItinerary struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        string          `json:"userId"`
	Destination    string          `json:"travelDestination"`
	StartDate      string          `json:"startDate"`
	EndDate        string          `json:"endDate"`
	Travellers     int             `json:"travellers"`
	Budget         string          `json:"budget"`
	DailyStartTime string          `json:"dailyStartTime"`
	DailyEndTime   string          `json:"dailyEndTime"`
	Plan           json.RawMessage `json:"itinerary"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewStoredItinerary flattens a plan into a storable record.
func NewStoredItinerary(ownerID string, plan *ItineraryPlan) (*StoredItinerary, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("encoding itinerary: %w", err)
	}
	d := plan.TravelDetails
	return &StoredItinerary{
		OwnerID:        ownerID,
		Destination:    d.Destination,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Travellers:     d.NumberOfTravelers,
		Budget:         d.Budget,
		DailyStartTime: d.DailyStartTime,
		DailyEndTime:   d.DailyEndTime,
		Plan:           body,
	}, nil
}
