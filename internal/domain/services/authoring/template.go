package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// CreateTemplateRequest creates a style template. A nil Config takes the
// house style.
type CreateTemplateRequest struct {
	UserID       string                    `json:"-"`
	Name         string                    `json:"name"`
	Description  *string                   `json:"description,omitempty"`
	DocumentType string                    `json:"document_type"`
	Config       *authoring.TemplateConfig `json:"config,omitempty"`
	IsDefault    bool                      `json:"is_default"`
	IsPublic     bool                      `json:"is_public"`
}

// UpdateTemplateRequest is a partial update; nil fields are left alone.
// The document type is fixed at creation.
type UpdateTemplateRequest struct {
	Name        *string                   `json:"name,omitempty"`
	Description *string                   `json:"description,omitempty"`
	Config      *authoring.TemplateConfig `json:"config,omitempty"`
	IsDefault   *bool                     `json:"is_default,omitempty"`
	IsPublic    *bool                     `json:"is_public,omitempty"`
}

// TemplateList is the list response
type TemplateList struct {
	Templates []authoring.Template `json:"templates"`
	Total     int                  `json:"total"`
}

// TemplateService manages a user's export styles
type TemplateService interface {
	CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*authoring.Template, error)
	GetTemplate(ctx context.Context, id, userID string) (*authoring.Template, error)

	// ListTemplates filters by document type when docType is not empty
	ListTemplates(ctx context.Context, userID, docType string) (*TemplateList, error)

	// DefaultTemplate returns the default template for docType, or the
	// user's newest one of that type when none is marked default
	DefaultTemplate(ctx context.Context, userID, docType string) (*authoring.Template, error)

	UpdateTemplate(ctx context.Context, id, userID string, req *UpdateTemplateRequest) (*authoring.Template, error)
	DeleteTemplate(ctx context.Context, id, userID string) error
}
