package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// BudgetTier represents the price band used to filter food venues.
type BudgetTier string

const (
	BudgetLow      BudgetTier = "LOW"
	BudgetMedium   BudgetTier = "MEDIUM"
	BudgetHigh     BudgetTier = "HIGH"
	BudgetVeryHigh BudgetTier = "VERY_HIGH"
	BudgetAll      BudgetTier = "ALL"
)

// ParseBudgetTier upper-cases the input and checks it against the known tiers.
func ParseBudgetTier(s string) (BudgetTier, error) {
	tier := BudgetTier(strings.ToUpper(strings.TrimSpace(s)))
	if !tier.Valid() {
		return "", fmt.Errorf("unknown budget tier %q", s)
	}
	return tier, nil
}

func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetLow, BudgetMedium, BudgetHigh, BudgetVeryHigh, BudgetAll:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for BudgetTier.
func (b *BudgetTier) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan BudgetTier: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	if !BudgetTier(strVal).Valid() {
		return fmt.Errorf("unknown BudgetTier value: %s", strVal)
	}
	*b = BudgetTier(strVal)
	return nil
}

// Value implements the driver.Valuer interface for BudgetTier.
func (b BudgetTier) Value() (driver.Value, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid BudgetTier value: %s", b)
	}
	return string(b), nil
}

// RawTastePreferences is a stored preference record as it comes from a source,
// any field may be missing.
type RawTastePreferences struct {
	TravelStyle  []string `json:"travel_style"`
	TouristSites []string `json:"tourist_sites"`
	Diet         []string `json:"diet"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
}

// TastePreferences is the canonical, fully populated preference shape the pipeline consumes.
type TastePreferences struct {
	TravelStyle    []string   `json:"travelStyle"`
	TravelSites    []string   `json:"travelSites"`
	Diet           []string   `json:"diet"`
	DailyStartTime string     `json:"dailyStartTime"`
	DailyEndTime   string     `json:"dailyEndTime"`
	Budget         BudgetTier `json:"budget"`
}

// StoredPreferences is a row of the taste_preferences table.
type StoredPreferences struct {
	OwnerID string `json:"owner_id"`
	RawTastePreferences
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertPreferencesParams is the body accepted by PUT /preferences.
type UpsertPreferencesParams struct {
	TravelStyle  []string `json:"travel_style"`
	TouristSites []string `json:"tourist_sites"`
	Diet         []string `json:"diet"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
}
