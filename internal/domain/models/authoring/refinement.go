package authoring

import "time"

// RefinementRecord is a ledger entry: the instruction or comment that was
// applied to a section. It never carries section text.
type RefinementRecord struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	SectionID  string    `json:"section_id" db:"section_id"`
	Prompt     *string   `json:"prompt,omitempty" db:"prompt"`
	Comment    *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	// Seq breaks created_at ties; assigned by the store.
	Seq int64 `json:"-" db:"seq"`
}

// RefinementPage is one page of a section's ledger, newest first.
type RefinementPage struct {
	Items  []RefinementRecord `json:"items"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}
