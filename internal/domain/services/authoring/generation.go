package authoring

import "context"

// Generation status values
const (
	StatusNotConfigured = "not_configured"
	StatusEmpty         = "empty"
	StatusPartial       = "partial"
	StatusCompleted     = "completed"
)

// SectionFailure names a section that could not be generated.
type SectionFailure struct {
	SectionID string `json:"section_id"`
	Error     string `json:"error"`
}

// GenerateAllResult summarizes a whole-document generation pass.
type GenerateAllResult struct {
	Generated []string         `json:"generated"`
	Skipped   []string         `json:"skipped"`
	Failed    []SectionFailure `json:"failed"`
	Version   int              `json:"version"`
}

// GenerationStatus reports how much of a document has content.
type GenerationStatus struct {
	Status             string  `json:"status"`
	Total              int     `json:"total"`
	Generated          int     `json:"generated"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// GenerationService drives generation across a whole document.
type GenerationService interface {
	// GenerateAll generates every section without content, in order.
	// Section failures are reported, not returned as an error.
	GenerateAll(ctx context.Context, projectID, userID string) (*GenerateAllResult, error)

	Status(ctx context.Context, projectID, userID string) (*GenerationStatus, error)
}
