package adapters

import (
	"context"
	"errors"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
)

// MeridianAdapter wraps a meridian-llm-go provider (anthropic, openrouter,
// lorem) as a TextCompleter.
type MeridianAdapter struct {
	provider llmprovider.Provider
	model    string
}

// NewMeridianAdapter creates an adapter that sends every request to model
func NewMeridianAdapter(provider llmprovider.Provider, model string) *MeridianAdapter {
	return &MeridianAdapter{
		provider: provider,
		model:    model,
	}
}

// Name returns the provider name.
func (a *MeridianAdapter) Name() string {
	return a.provider.Name().String()
}

// SupportsModel returns true if the wrapped provider supports the configured model.
func (a *MeridianAdapter) SupportsModel() bool {
	return a.provider.SupportsModel(a.model)
}

// Complete sends one user turn and returns the concatenated text blocks.
// The system prompt leads the user turn.
func (a *MeridianAdapter) Complete(ctx context.Context, system, user string) (string, error) {
	prompt := user
	if system != "" {
		prompt = system + "\n\n" + user
	}

	req := &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{BlockType: "text", Sequence: 0, TextContent: &prompt},
				},
			},
		},
		Model: a.model,
	}

	resp, err := a.provider.GenerateResponse(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("provider returned no response")
	}

	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block == nil || block.BlockType != "text" || block.TextContent == nil {
			continue
		}
		sb.WriteString(*block.TextContent)
	}
	return sb.String(), nil
}
