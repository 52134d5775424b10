package places

import (
	"strings"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

// DefaultAddress stands in for venues the provider returned without an address.
const DefaultAddress = "No address available"

var foodTypeMarkers = []string{"restaurant", "food", "cafe", "meal"}

var foodNameKeywords = []string{
	"restaurant", "food", "cafe", "coffee", "eatery", "dining",
	"bistro", "bakery", "bar", "pub", "diner", "canteen", "hawker", "stall",
	"vegetarian", "cuisine", "meal", "breakfast", "lunch", "dinner",
}

var priceTiers = map[string]types.BudgetTier{
	"FREE":           types.BudgetLow,
	"INEXPENSIVE":    types.BudgetLow,
	"MODERATE":       types.BudgetMedium,
	"EXPENSIVE":      types.BudgetHigh,
	"VERY_EXPENSIVE": types.BudgetVeryHigh,
}

// Classify marks a place as FOOD when a type tag or its name looks like an eatery.
func Classify(p types.PlaceCandidate) types.PlaceCategory {
	for _, t := range p.Types {
		t = strings.ToLower(t)
		for _, marker := range foodTypeMarkers {
			if strings.Contains(t, marker) {
				return types.CategoryFood
			}
		}
	}
	name := strings.ToLower(p.Name)
	for _, kw := range foodNameKeywords {
		if strings.Contains(name, kw) {
			return types.CategoryFood
		}
	}
	return types.CategoryAttraction
}

// NormalizePriceLevel strips the PRICE_LEVEL_ prefix and upper-cases. "", "0" and
// UNSPECIFIED are reported as "".
func NormalizePriceLevel(level string) string {
	level = strings.ToUpper(strings.TrimSpace(level))
	level = strings.TrimPrefix(level, "PRICE_LEVEL_")
	switch level {
	case "", "0", "UNSPECIFIED":
		return ""
	}
	return level
}

// PriceTier maps a provider price level to a budget tier. ok is false for absent or unknown levels.
func PriceTier(level string) (types.BudgetTier, bool) {
	tier, ok := priceTiers[NormalizePriceLevel(level)]
	return tier, ok
}

// KeepForBudget reports whether a food place survives the budget filter. Places whose price
// level is absent or unmapped are always kept.
func KeepForBudget(p types.PlaceCandidate, budget types.BudgetTier) bool {
	if budget == types.BudgetAll || budget == "" {
		return true
	}
	tier, ok := PriceTier(p.PriceLevel)
	if !ok {
		return true
	}
	return tier == budget
}

// Partition classifies a result list, tagging food price tiers and dropping food outside budget.
func Partition(results []types.PlaceCandidate, budget types.BudgetTier) (attractions, food []types.PlaceCandidate) {
	for _, p := range results {
		if strings.TrimSpace(p.Address) == "" {
			p.Address = DefaultAddress
		}
		p.Category = Classify(p)
		if p.Category == types.CategoryAttraction {
			attractions = append(attractions, p)
			continue
		}
		if tier, ok := PriceTier(p.PriceLevel); ok {
			p.PriceTier = &tier
		}
		if KeepForBudget(p, budget) {
			food = append(food, p)
		}
	}
	return attractions, food
}

// DedupByName keeps the first place of each exact name, preserving order.
func DedupByName(in []types.PlaceCandidate) []types.PlaceCandidate {
	out := make([]types.PlaceCandidate, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out
}
