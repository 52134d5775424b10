package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

// GenerateItineraryRequest is the caller-facing body of POST /itineraries/generate.
type GenerateItineraryRequest struct {
	Destination  string `json:"destination" example:"Singapore"`
	NumTravelers int    `json:"numTravelers" example:"2"`
	Budget       string `json:"budget" example:"medium"`
	StartDate    string `json:"startDate" example:"2025-06-01"`
	EndDate      string `json:"endDate" example:"2025-06-03"`
	Save         bool   `json:"save,omitempty" example:"false"`
}

// GenerateItineraryResponse carries the validated plan and quality signals.
type GenerateItineraryResponse struct {
	Itinerary      json.RawMessage `json:"itinerary"`
	TravelDetails  json.RawMessage `json:"travelDetails"`
	FoodActivities []string        `json:"foodActivities"`
	SchemaIssues   []string        `json:"schemaIssues,omitempty"`
	States         []string        `json:"states"`
	Saved          bool            `json:"saved"`
	ItineraryID    *uuid.UUID      `json:"itineraryId,omitempty"`
}

// CreateItineraryRequest stores a finished itinerary, as POSTed by the frontend.
type CreateItineraryRequest struct {
	Itinerary     json.RawMessage `json:"itinerary"`
	TravelDetails json.RawMessage `json:"travelDetails"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// PipelineErrorResponse documents the failure payload of the generate endpoint.
type PipelineErrorResponse struct {
	Success     bool   `json:"success" example:"false"`
	Error       string `json:"error" example:"Failed to parse itinerary response"`
	Kind        string `json:"kind" example:"MalformedGenerationOutput"`
	State       string `json:"state" example:"GENERATION_CALLED"`
	Details     string `json:"details,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`
	RequestID   string `json:"request_id"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
