package llm

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// ContentProvider produces section text. Implementations may fail with a
// transient error (worth retrying) or a fatal one; see service/llm.IsFatal.
// Responses are whole strings, never streamed.
type ContentProvider interface {
	// GenerateSection writes a section from scratch.
	GenerateSection(ctx context.Context, req *GenerateSectionRequest) (string, error)

	// RefineSection rewrites existing text following an instruction.
	RefineSection(ctx context.Context, req *RefineSectionRequest) (string, error)
}

// PrecedingSection is already-generated text handed to the model for continuity.
type PrecedingSection struct {
	Title   string
	Content string
}

// GenerateSectionRequest contains the inputs for generating one section.
type GenerateSectionRequest struct {
	Topic        string
	DocumentType authoring.DocumentType
	SectionTitle string

	// Preceding holds up to the configured window of generated sections
	// that come before this one, in document order.
	Preceding []PrecedingSection
}

// RefineSectionRequest contains the inputs for rewriting one section.
type RefineSectionRequest struct {
	Topic        string
	DocumentType authoring.DocumentType
	SectionTitle string
	Existing     string
	Instruction  string
}

// TextCompleter is the raw model call underneath a ContentProvider:
// a system prompt and a user prompt in, text out.
type TextCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)

	// Name returns the backend name (e.g., "openai", "anthropic")
	Name() string
}

// OutlineSuggester proposes a document structure for a topic.
type OutlineSuggester interface {
	SuggestOutline(ctx context.Context, topic string, docType authoring.DocumentType) (authoring.Structure, error)
}
