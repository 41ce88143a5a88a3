package adapters

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// FatalMarker wraps errors that must not be retried. Set by the llm package
// so adapters stay free of its import.
type FatalMarker func(error) error

// OpenAIAdapter implements TextCompleter with openai-go chat completions.
// BaseURL makes it usable with any OpenAI-compatible endpoint.
type OpenAIAdapter struct {
	client openai.Client
	model  string
	fatal  FatalMarker
}

// OpenAIConfig configures the OpenAI adapter
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIAdapter creates an OpenAI adapter
func NewOpenAIAdapter(cfg OpenAIConfig, fatal FatalMarker) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by the caller's retry policy
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIAdapter{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		fatal:  fatal,
	}, nil
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Complete sends a system and a user message and returns the first choice
func (a *OpenAIAdapter) Complete(ctx context.Context, system, user string) (string, error) {
	msgs := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(user))

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.model),
		Messages: msgs,
	})
	if err != nil {
		return "", a.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// classify marks 4xx answers other than timeouts and rate limits as fatal
func (a *OpenAIAdapter) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status >= 400 && status < 500 && status != 408 && status != 429 {
			return a.fatal(fmt.Errorf("openai: status %d: %w", status, err))
		}
	}
	return err
}
