package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-poi-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-poi-itineraries/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// TextGenerator sends one prompt to a language model and returns its raw text answer.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator builds the configured provider wrapped with timing and tracing.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (TextGenerator, error) {
	var (
		gen TextGenerator
		err error
	)
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", ProviderGemini:
		provider = ProviderGemini
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	case ProviderOpenAI:
		gen, err = NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Text generator configured", slog.String("provider", provider), slog.String("model", cfg.Model))
	return NewInstrumented(gen, provider, cfg.Timeout, logger), nil
}

var _ TextGenerator = (*Instrumented)(nil)

// Instrumented bounds each call by timeout and records its latency.
type Instrumented struct {
	next     TextGenerator
	provider string
	timeout  time.Duration
	logger   *slog.Logger
}

func NewInstrumented(next TextGenerator, provider string, timeout time.Duration, logger *slog.Logger) *Instrumented {
	return &Instrumented{next: next, provider: provider, timeout: timeout, logger: logger}
}

func (g *Instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("TextGenerator").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("llm.provider", g.provider),
		attribute.Int("llm.prompt_length", len(prompt)),
	))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.next.Generate(ctx, prompt)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Get().LLMRequestDurationSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("provider", g.provider),
		attribute.String("outcome", outcome),
	))

	if err != nil {
		g.logger.ErrorContext(ctx, "Text generation failed",
			slog.String("provider", g.provider), slog.Duration("elapsed", elapsed), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return "", err
	}

	g.logger.InfoContext(ctx, "Text generation finished",
		slog.String("provider", g.provider), slog.Duration("elapsed", elapsed), slog.Int("response_length", len(text)))
	span.SetAttributes(attribute.Int("llm.response_length", len(text)))
	span.SetStatus(codes.Ok, "generated")
	return text, nil
}
