package preferences

import (
	"strings"
	"time"

	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

const (
	DefaultTravelStyle    = "Active"
	DefaultTravelSite     = "Nature Sites"
	DefaultDiet           = "None"
	DefaultDailyStartTime = "08:30"
	DefaultDailyEndTime   = "22:00"

	// DietNone asks for one generic food query; DietAllergy is handled by the generator only.
	DietNone    = "None"
	DietAllergy = "Allergy"
)

// Normalize maps a possibly partial record to fully populated preferences. A nil record yields
// all defaults. Tags are trimmed, blanks dropped and duplicates removed keeping the first.
// Times that are not HH:MM count as absent.
func Normalize(raw *types.RawTastePreferences, budget types.BudgetTier) types.TastePreferences {
	if raw == nil {
		raw = &types.RawTastePreferences{}
	}
	return types.TastePreferences{
		TravelStyle:    tagsOrDefault(raw.TravelStyle, DefaultTravelStyle),
		TravelSites:    tagsOrDefault(raw.TouristSites, DefaultTravelSite),
		Diet:           tagsOrDefault(raw.Diet, DefaultDiet),
		DailyStartTime: clockOrDefault(raw.StartTime, DefaultDailyStartTime),
		DailyEndTime:   clockOrDefault(raw.EndTime, DefaultDailyEndTime),
		Budget:         budget,
	}
}

func tagsOrDefault(tags []string, def string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return []string{def}
	}
	return out
}

func clockOrDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if _, err := time.Parse("15:04", v); err != nil {
		return def
	}
	return v
}
