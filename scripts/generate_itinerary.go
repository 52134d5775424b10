// Command generate_itinerary runs one generation against the configured places provider and
// language model and prints the validated plan. Preferences come from flags, not a user service.
//
//	go run ./scripts -destination Lisbon -budget low -start 2025-06-02 -end 2025-06-03
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/go-poi-itineraries/app/logger"
	"github.com/FACorreiaa/go-poi-itineraries/config"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/llm"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/places"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-poi-itineraries/internal/api/prompt"
	"github.com/FACorreiaa/go-poi-itineraries/internal/types"
)

var (
	destination = flag.String("destination", "", "city to plan for")
	travelers   = flag.Int("travelers", 1, "number of travelers")
	budget      = flag.String("budget", "all", "low, medium, high, very_high or all")
	startDate   = flag.String("start", time.Now().Format("2006-01-02"), "first day, YYYY-MM-DD")
	endDate     = flag.String("end", "", "last day, YYYY-MM-DD (defaults to start)")
	styles      = flag.String("styles", "", "comma separated travel styles")
	sites       = flag.String("sites", "", "comma separated site interests")
	diet        = flag.String("diet", "", "comma separated dietary needs")
	showPrompt  = flag.Bool("prompt", false, "print the prompt and exit")
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}
	flag.Parse()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := appLogger.New(cfg.Mode)

	tier, err := types.ParseBudgetTier(*budget)
	if err != nil {
		log.Fatal(err)
	}
	if *endDate == "" {
		*endDate = *startDate
	}
	trip := types.TripRequest{
		Destination:  *destination,
		NumTravelers: *travelers,
		StartDate:    *startDate,
		EndDate:      *endDate,
		Budget:       tier,
	}
	if err := trip.Validate(); err != nil {
		log.Fatal(err)
	}
	prefs := preferences.Normalize(&types.RawTastePreferences{
		TravelStyle:  splitList(*styles),
		TouristSites: splitList(*sites),
		Diet:         splitList(*diet),
	}, tier)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var provider places.PlacesProvider
	if cfg.Places.Provider == "google" {
		if provider, err = places.NewGoogleClient(ctx, cfg.Places.GoogleAPIKey, logger); err != nil {
			log.Fatalf("places: %v", err)
		}
	} else {
		provider = places.NewProxyClient(cfg.Places.BaseURL, &http.Client{Timeout: cfg.Places.Timeout}, logger)
	}
	aggregator := places.NewAggregatorService(provider, cfg.Places.MaxConcurrentQueries, cfg.Places.MinFoodCandidates, logger)

	bundle, err := aggregator.Aggregate(ctx, trip.Destination, prefs)
	if err != nil {
		log.Fatalf("aggregate: %v", err)
	}
	text, err := prompt.Compose(prefs, *bundle, trip)
	if err != nil {
		log.Fatalf("prompt: %v", err)
	}
	if *showPrompt {
		fmt.Println(text)
		return
	}

	generator, err := llm.NewTextGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	raw, err := generator.Generate(ctx, text)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	switch res := itinerary.Validate(raw, trip, prefs).(type) {
	case types.MalformedOutput:
		fmt.Fprintln(os.Stderr, raw)
		log.Fatalf("model output is not a usable itinerary: %v", res.Err)
	case types.ParsedPlan:
		for _, issue := range res.SchemaIssues {
			log.Println("schema:", issue)
		}
		out, _ := json.MarshalIndent(res.Plan, "", "  ")
		fmt.Println(string(out))
		fmt.Printf("\nfood stops: %s\n", strings.Join(res.FoodActivities, ", "))
	}
}
