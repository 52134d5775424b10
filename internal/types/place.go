package types

// PlaceCategory is derived by the aggregator when a search result is classified.
type PlaceCategory string

const (
	CategoryAttraction PlaceCategory = "ATTRACTION"
	CategoryFood       PlaceCategory = "FOOD"
)

// PlaceCandidate is one venue returned by a places-search provider.
type PlaceCandidate struct {
	Name       string        `json:"name"`
	Address    string        `json:"address"`
	Rating     float64       `json:"rating"`
	Types      []string      `json:"types"`
	PriceLevel string        `json:"price_level,omitempty"`
	PriceTier  *BudgetTier   `json:"priceCategory,omitempty"`
	Category   PlaceCategory `json:"-"`
}

// LocationBundle is the candidate inventory handed to the prompt composer.
type LocationBundle struct {
	Attractions []PlaceCandidate `json:"attractions"`
	Food        []PlaceCandidate `json:"food"`
}

// QueryPurpose tags why a place query was issued.
type QueryPurpose string

const (
	PurposeInterest  QueryPurpose = "interest"
	PurposeDiet      QueryPurpose = "diet"
	PurposeBroadened QueryPurpose = "broadened"
	PurposeBackfill  QueryPurpose = "backfill"
)

// PlaceQuery is a single search sent to the places provider.
type PlaceQuery struct {
	Location string
	Text     string
	Purpose  QueryPurpose
}

// QueryResult is the outcome of one PlaceQuery: either Places or Err is meaningful.
type QueryResult struct {
	Query  PlaceQuery
	Places []PlaceCandidate
	Err    error
}

func (r QueryResult) OK() bool { return r.Err == nil }
