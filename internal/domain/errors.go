package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Authoring errors
	ErrSectionNotFound   = errors.New("section not found")
	ErrNoContentToRefine = errors.New("section has no content")
	ErrContentExists     = errors.New("section already has content")
	ErrGenerationFailed  = errors.New("content generation failed")
	ErrRefinementFailed  = errors.New("content refinement failed")
	ErrInvalidReaction   = errors.New("invalid reaction")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (project, document)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// SectionError ties an authoring failure to the section it happened on.
// Kind is one of the authoring sentinels above; errors.Is matches it.
type SectionError struct {
	Kind      error
	SectionID string
	Cause     error // Provider failure for generation/refinement, nil otherwise
}

func (e *SectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("section '%s': %v: %v", e.SectionID, e.Kind, e.Cause)
	}
	return fmt.Sprintf("section '%s': %v", e.SectionID, e.Kind)
}

func (e *SectionError) Is(target error) bool {
	return target == e.Kind
}

func (e *SectionError) Unwrap() error {
	return e.Cause
}

// StatusCode implements HTTPError
func (e *SectionError) StatusCode() int {
	switch e.Kind {
	case ErrSectionNotFound:
		return http.StatusNotFound
	case ErrContentExists:
		return http.StatusConflict
	case ErrGenerationFailed, ErrRefinementFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// NewSectionError creates a SectionError without an underlying cause
func NewSectionError(kind error, sectionID string) *SectionError {
	return &SectionError{Kind: kind, SectionID: sectionID}
}
