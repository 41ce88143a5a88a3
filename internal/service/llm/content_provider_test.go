package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsmith/internal/domain/models/authoring"
	domainllm "docsmith/internal/domain/services/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCompleter struct {
	mu     sync.Mutex
	answer string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.system, f.user = system, user
	return f.answer, f.err
}

func newPrompted(t *testing.T, c *fakeCompleter) *PromptedProvider {
	t.Helper()
	catalog, err := LoadPromptCatalog()
	require.NoError(t, err)
	return NewPromptedProvider(c, catalog, discardLogger())
}

func TestPromptCatalog_RenderGenerate(t *testing.T) {
	catalog, err := LoadPromptCatalog()
	require.NoError(t, err)

	system, user, err := catalog.Render(opGenerate, authoring.DocumentTypeWord, &domainllm.GenerateSectionRequest{
		Topic:        "Battery recycling",
		DocumentType: authoring.DocumentTypeWord,
		SectionTitle: "Market Size",
		Preceding: []domainllm.PrecedingSection{
			{Title: "Introduction", Content: "Batteries matter."},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, system, "Word document")
	assert.Contains(t, user, "Battery recycling")
	assert.Contains(t, user, "Section title: Market Size")
	assert.Contains(t, user, "## Introduction")
	assert.Contains(t, user, "Batteries matter.")

	_, user, err = catalog.Render(opGenerate, authoring.DocumentTypePowerPoint, &domainllm.GenerateSectionRequest{
		Topic:        "Onboarding",
		SectionTitle: "Welcome",
	})
	require.NoError(t, err)
	assert.Contains(t, user, "Slide title: Welcome")
	assert.NotContains(t, user, "already written")
}

func TestPromptCatalog_RenderRefine(t *testing.T) {
	catalog, err := LoadPromptCatalog()
	require.NoError(t, err)

	_, user, err := catalog.Render(opRefine, authoring.DocumentTypeWord, &domainllm.RefineSectionRequest{
		Topic:        "Battery recycling",
		SectionTitle: "Market Size",
		Existing:     "Old text.",
		Instruction:  "Add numbers",
	})
	require.NoError(t, err)
	assert.Contains(t, user, "Old text.")
	assert.Contains(t, user, "Requested change: Add numbers")
}

func TestParsePromptCatalog_Errors(t *testing.T) {
	_, err := ParsePromptCatalog([]byte("generate: ["))
	assert.Error(t, err)

	_, err = ParsePromptCatalog([]byte(`
generate:
  excel:
    system: x
    user: y
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document type")

	_, err = ParsePromptCatalog([]byte(`
generate:
  word:
    system: x
    user: y
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestPromptedProvider_GenerateSection(t *testing.T) {
	c := &fakeCompleter{answer: "```\n<p>Fresh <em>text</em></p>\n```"}
	p := newPrompted(t, c)

	text, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{
		Topic:        "Solar",
		DocumentType: authoring.DocumentTypeWord,
		SectionTitle: "Costs",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh _text_", text)
	assert.Contains(t, c.user, "Section title: Costs")
	assert.NotEmpty(t, c.system)
}

func TestPromptedProvider_CompleterErrorIsWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	p := newPrompted(t, &fakeCompleter{err: cause})

	_, err := p.RefineSection(context.Background(), &domainllm.RefineSectionRequest{
		DocumentType: authoring.DocumentTypeWord,
		SectionTitle: "Costs",
		Existing:     "x",
		Instruction:  "y",
	})
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "fake refine")
	assert.False(t, IsFatal(err))
}

func TestPromptedProvider_UnknownDocumentTypeIsFatal(t *testing.T) {
	p := newPrompted(t, &fakeCompleter{answer: "text"})

	_, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{
		DocumentType: authoring.DocumentType("excel"),
		SectionTitle: "Costs",
	})
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestPromptedProvider_EmptyAnswer(t *testing.T) {
	p := newPrompted(t, &fakeCompleter{answer: "  "})

	_, err := p.GenerateSection(context.Background(), &domainllm.GenerateSectionRequest{
		DocumentType: authoring.DocumentTypeWord,
		SectionTitle: "Costs",
	})
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestPromptedProvider_SuggestOutline(t *testing.T) {
	c := &fakeCompleter{answer: `[{"id":"slide-1","title":"Welcome","order":0},{"id":"slide-2","title":"Agenda","order":1}]`}
	p := newPrompted(t, c)

	structure, err := p.SuggestOutline(context.Background(), "Onboarding", authoring.DocumentTypePowerPoint)
	require.NoError(t, err)
	assert.Equal(t, []string{"slide-1", "slide-2"}, structure.IDs())
	assert.Contains(t, c.user, "presentation about: Onboarding")
}
