package authoring

import (
	"time"
)

// DocumentType selects the flavour of document a project produces.
type DocumentType string

const (
	DocumentTypeWord       DocumentType = "word"
	DocumentTypePowerPoint DocumentType = "powerpoint"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return t == DocumentTypeWord || t == DocumentTypePowerPoint
}

// UnitName is how a structural unit is called for this type ("section" or "slide").
func (t DocumentType) UnitName() string {
	if t == DocumentTypePowerPoint {
		return "slide"
	}
	return "section"
}

type Project struct {
	ID           string       `json:"id" db:"id"`
	UserID       string       `json:"user_id" db:"user_id"`
	Title        string       `json:"title" db:"title"`
	DocumentType DocumentType `json:"document_type" db:"document_type"`
	MainTopic    string       `json:"main_topic" db:"main_topic"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
