package types

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("requested item not found")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrForbidden = errors.New("action forbidden")
var ErrInvalidTripRequest = errors.New("invalid trip request")

// Pipeline failure kinds. A *PipelineError unwraps to exactly one of these.
var (
	ErrPreferencesUnavailable    = errors.New("preferences unavailable")
	ErrLocationDataUnavailable   = errors.New("location data unavailable")
	ErrGenerationProvider        = errors.New("generation provider error")
	ErrMalformedGenerationOutput = errors.New("malformed generation output")
)

// PipelineError is the typed failure returned by the itinerary pipeline.
type PipelineError struct {
	Kind        error
	State       PipelineState
	Detail      string
	RawResponse string
	Err         error
}

func NewPipelineError(kind error, state PipelineState, err error) *PipelineError {
	pe := &PipelineError{Kind: kind, State: state, Err: err}
	if err != nil {
		pe.Detail = err.Error()
	}
	return pe
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (state %s)", e.Kind, e.State)
	}
	return fmt.Sprintf("%s (state %s): %v", e.Kind, e.State, e.Err)
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName is the stable name of the failure kind used in API payloads and metrics.
func (e *PipelineError) KindName() string {
	return ErrorKindName(e.Kind)
}

func ErrorKindName(kind error) string {
	switch {
	case errors.Is(kind, ErrPreferencesUnavailable):
		return "PreferencesUnavailable"
	case errors.Is(kind, ErrLocationDataUnavailable):
		return "LocationDataUnavailable"
	case errors.Is(kind, ErrGenerationProvider):
		return "GenerationProviderError"
	case errors.Is(kind, ErrMalformedGenerationOutput):
		return "MalformedGenerationOutput"
	case errors.Is(kind, ErrInvalidTripRequest):
		return "InvalidTripRequest"
	default:
		return "Unknown"
	}
}
