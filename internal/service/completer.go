package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
)

// Completer sends a single prompt to a text model and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	Name() string
}

// NewCompleter picks the provider named by TEXT_PROVIDER, or the first one with a key.
// It returns nil when nothing is configured.
func NewCompleter(cfg config.Config) Completer {
	httpClient := &http.Client{Timeout: 120 * time.Second}

	switch strings.ToLower(cfg.Generation.TextProvider) {
	case "openai":
		return NewOpenAICompleter(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Generation.OpenAIModel)
	case "cohere":
		return NewCohereCompleter(httpClient, cfg.CohereAPIKey, cfg.Generation.CohereModel)
	case "":
	default:
		slog.Warn("unknown text provider, falling back to configured keys", "provider", cfg.Generation.TextProvider)
	}

	if cfg.OpenAIAPIKey != "" {
		return NewOpenAICompleter(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.Generation.OpenAIModel)
	}
	if cfg.CohereAPIKey != "" {
		return NewCohereCompleter(httpClient, cfg.CohereAPIKey, cfg.Generation.CohereModel)
	}
	return nil
}
