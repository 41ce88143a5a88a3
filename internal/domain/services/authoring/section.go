package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// SectionResult is the committed state of a section after a content write.
type SectionResult struct {
	SectionID string `json:"section_id"`
	Content   string `json:"content"`
	Version   int    `json:"version"`
}

// RefineRequest carries a refinement instruction.
type RefineRequest struct {
	SectionID string `json:"section_id"`
	Prompt    string `json:"prompt"`
}

// CommentRequest carries a free-form comment.
type CommentRequest struct {
	SectionID string `json:"section_id"`
	Comment   string `json:"comment"`
}

// FeedbackResult is the section's feedback after a click. Record is nil
// when the section is back to neutral.
type FeedbackResult struct {
	SectionID string                    `json:"section_id"`
	State     string                    `json:"state"`
	Record    *authoring.FeedbackRecord `json:"feedback"`
}

// HistoryQuery filters a ledger listing. Empty SectionID lists all sections.
type HistoryQuery struct {
	SectionID string
	Offset    int
	Limit     int
}

// SectionService is the per-section authoring surface: generation,
// refinement, comments and feedback.
type SectionService interface {
	// GenerateSection fills a section that has no content yet
	GenerateSection(ctx context.Context, projectID, userID, sectionID string) (*SectionResult, error)

	// RefineSection rewrites existing content; resets the section's feedback
	RefineSection(ctx context.Context, projectID, userID string, req *RefineRequest) (*SectionResult, error)

	// AddComment records a comment in the section's ledger
	AddComment(ctx context.Context, projectID, userID string, req *CommentRequest) (*authoring.RefinementRecord, error)

	// SetFeedback applies a like/dislike click; nil reaction clears
	SetFeedback(ctx context.Context, projectID, userID, sectionID string, reaction *authoring.Reaction) (*FeedbackResult, error)

	// FeedbackMap returns section id -> reaction for sections with feedback
	FeedbackMap(ctx context.Context, projectID, userID string) (map[string]authoring.Reaction, error)

	// History lists ledger entries newest first
	History(ctx context.Context, projectID, userID string, q HistoryQuery) (*authoring.RefinementPage, error)
}
