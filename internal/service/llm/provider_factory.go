package llm

import (
	"fmt"
	"log/slog"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"
	"github.com/haowjy/meridian-llm-go/providers/openrouter"

	"docsmith/internal/config"
	domainllm "docsmith/internal/domain/services/llm"
	"docsmith/internal/service/llm/adapters"
)

// ProviderFactory creates the TextCompleter selected by configuration
type ProviderFactory struct {
	config *config.Config
	logger *slog.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, logger *slog.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		logger: logger,
	}
}

// GetCompleter returns a completer for the given provider name
//
// Supported providers:
//   - "openai" - OpenAI or any OpenAI-compatible endpoint (OPENAI_BASE_URL)
//   - "anthropic" - Claude models via Anthropic API
//   - "openrouter" - Multiple providers via OpenRouter
//   - "lorem" - Mock provider for local development (no API key required)
func (f *ProviderFactory) GetCompleter(providerName string) (domainllm.TextCompleter, error) {
	switch providerName {
	case "openai":
		return adapters.NewOpenAIAdapter(adapters.OpenAIConfig{
			APIKey:  f.config.OpenAIAPIKey,
			BaseURL: f.config.OpenAIBaseURL,
			Model:   f.config.AIModel,
		}, Fatal)

	case "anthropic":
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
		}
		return f.meridian(adapters.NewMeridianAdapter(provider, f.config.AIModel)), nil

	case "openrouter":
		if f.config.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
		}
		provider, err := openrouter.NewProvider(f.config.OpenRouterAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
		}
		return f.meridian(adapters.NewMeridianAdapter(provider, f.config.AIModel)), nil

	case "lorem":
		return f.meridian(adapters.NewMeridianAdapter(lorem.NewProvider(), f.config.AIModel)), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, anthropic, openrouter, lorem)", providerName)
	}
}

func (f *ProviderFactory) meridian(a *adapters.MeridianAdapter) *adapters.MeridianAdapter {
	if !a.SupportsModel() {
		f.logger.Warn("model not listed by provider, requests may fail",
			"provider", a.Name(),
			"model", f.config.AIModel,
		)
	}
	return a
}

// Providers bundles what the authoring services need from the model layer
type Providers struct {
	Content  domainllm.ContentProvider
	Outlines domainllm.OutlineSuggester
	Name     string
}

// SetupProviders builds the configured completer, wraps it in prompts and
// the retry policy. Outline suggestions are not retried: they have a
// fixed fallback.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*Providers, error) {
	completer, err := NewProviderFactory(cfg, logger).GetCompleter(cfg.AIProvider)
	if err != nil {
		return nil, err
	}

	prompts, err := LoadPromptCatalog()
	if err != nil {
		return nil, err
	}

	prompted := NewPromptedProvider(completer, prompts, logger)
	policy := RetryPolicy{
		MaxAttempts: cfg.AIMaxAttempts,
		Delay:       cfg.AIRetryDelay,
		MaxDelay:    cfg.AIRetryMaxDelay,
		Timeout:     cfg.AIRequestTimeout,
	}

	logger.Info("llm provider initialized",
		"provider", completer.Name(),
		"model", cfg.AIModel,
		"max_attempts", policy.MaxAttempts,
	)

	return &Providers{
		Content:  NewRetryingProvider(prompted, policy, logger),
		Outlines: prompted,
		Name:     completer.Name(),
	}, nil
}
