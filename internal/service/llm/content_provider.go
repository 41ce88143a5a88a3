package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docsmith/internal/domain/models/authoring"
	domainllm "docsmith/internal/domain/services/llm"
)

// PromptedProvider implements ContentProvider and OutlineSuggester by
// rendering catalog prompts and sending them to a TextCompleter.
type PromptedProvider struct {
	completer  domainllm.TextCompleter
	prompts    *PromptCatalog
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewPromptedProvider creates a provider over a completer
func NewPromptedProvider(completer domainllm.TextCompleter, prompts *PromptCatalog, logger *slog.Logger) *PromptedProvider {
	return &PromptedProvider{
		completer:  completer,
		prompts:    prompts,
		normalizer: NewNormalizer(),
		logger:     logger,
	}
}

// GenerateSection writes a section from scratch
func (p *PromptedProvider) GenerateSection(ctx context.Context, req *domainllm.GenerateSectionRequest) (string, error) {
	return p.run(ctx, opGenerate, req.DocumentType, req, "section_title", req.SectionTitle)
}

// RefineSection rewrites a section following the instruction
func (p *PromptedProvider) RefineSection(ctx context.Context, req *domainllm.RefineSectionRequest) (string, error) {
	return p.run(ctx, opRefine, req.DocumentType, req, "section_title", req.SectionTitle)
}

// SuggestOutline asks the model for an outline and parses it
func (p *PromptedProvider) SuggestOutline(ctx context.Context, topic string, docType authoring.DocumentType) (authoring.Structure, error) {
	raw, err := p.complete(ctx, opOutline, docType, struct{ Topic string }{Topic: topic})
	if err != nil {
		return nil, err
	}
	return ParseOutline(raw, docType)
}

func (p *PromptedProvider) run(ctx context.Context, op string, docType authoring.DocumentType, data any, logArgs ...any) (string, error) {
	start := time.Now()
	raw, err := p.complete(ctx, op, docType, data)
	if err != nil {
		return "", err
	}

	text, err := p.normalizer.Normalize(raw)
	if err != nil {
		return "", err
	}

	p.logger.Debug("provider call completed",
		append([]any{
			"operation", op,
			"provider", p.completer.Name(),
			"chars", len(text),
			"duration_ms", time.Since(start).Milliseconds(),
		}, logArgs...)...,
	)
	return text, nil
}

func (p *PromptedProvider) complete(ctx context.Context, op string, docType authoring.DocumentType, data any) (string, error) {
	system, user, err := p.prompts.Render(op, docType, data)
	if err != nil {
		return "", Fatal(err)
	}
	raw, err := p.completer.Complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", p.completer.Name(), op, err)
	}
	return raw, nil
}
