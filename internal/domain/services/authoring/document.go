package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// ConfigureDocumentRequest saves a project's outline.
type ConfigureDocumentRequest struct {
	Structure authoring.Structure `json:"structure"`
}

// ReorderRequest lists every section id in its new order.
type ReorderRequest struct {
	SectionIDs []string `json:"section_ids"`
}

// SuggestOutlineRequest asks for an outline. Empty fields default to the
// project's main topic and document type; a different document type is rejected.
type SuggestOutlineRequest struct {
	MainTopic    string `json:"main_topic"`
	DocumentType string `json:"document_type"`
}

// OutlineSuggestion is a proposed structure. Source is "ai" or "fallback".
type OutlineSuggestion struct {
	Structure   authoring.Structure `json:"structure"`
	Suggestions []string            `json:"suggestions"`
	Source      string              `json:"source"`
}

// DocumentService manages a project's outline.
type DocumentService interface {
	// Configure creates the document on first save, otherwise replaces its
	// structure and prunes content, ledger and feedback of removed sections.
	Configure(ctx context.Context, projectID, userID string, req *ConfigureDocumentRequest) (*authoring.Document, error)

	// Reorder rewrites section orders; content and version are untouched
	Reorder(ctx context.Context, projectID, userID string, req *ReorderRequest) (*authoring.Document, error)

	// GetDocument returns the project's document or ErrNotFound
	GetDocument(ctx context.Context, projectID, userID string) (*authoring.Document, error)

	// SuggestOutline proposes a structure; provider failures fall back to a
	// fixed outline instead of returning an error
	SuggestOutline(ctx context.Context, projectID, userID string, req *SuggestOutlineRequest) (*OutlineSuggestion, error)
}
