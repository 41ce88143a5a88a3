package config

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxProjectTitleLength = 255

	// MaxMainTopicLength is the maximum length for a project's main topic.
	// The topic is interpolated into every prompt, so it is kept short.
	MaxMainTopicLength = 500

	// MaxSectionTitleLength is the maximum length for section and slide titles.
	MaxSectionTitleLength = 255

	// MaxSectionIDLength is the maximum length for section and slide ids.
	// Matches the VARCHAR(100) section_id columns of the ledger and feedback tables.
	MaxSectionIDLength = 100

	// MaxSections caps the outline size of a single document.
	MaxSections = 50

	// MaxRefinementPromptLength is the maximum length for a refinement instruction.
	MaxRefinementPromptLength = 2000

	// MaxCommentLength is the maximum length for a section comment.
	MaxCommentLength = 5000

	// DefaultRefinementHistoryLimit is how many ledger entries are kept per section.
	DefaultRefinementHistoryLimit = 3

	// DefaultGenerationContextWindow is how many preceding generated sections
	// are handed to the provider when generating a section.
	DefaultGenerationContextWindow = 3

	// MaxHistoryPageSize bounds the limit parameter of history listings.
	MaxHistoryPageSize = 100

	// MaxTemplateNameLength is the maximum length for style template names.
	MaxTemplateNameLength = 255

	// MaxTemplateDescriptionLength is the maximum length for template descriptions.
	MaxTemplateDescriptionLength = 2000
)
