package handler

import (
	"log/slog"
	"net/http"

	authoringSvc "docsmith/internal/domain/services/authoring"
	"docsmith/internal/httputil"
)

// TemplateHandler handles export style template requests
type TemplateHandler struct {
	templateService authoringSvc.TemplateService
	logger          *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService authoringSvc.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// ListTemplates lists the user's templates
// GET /api/templates?document_type=word|powerpoint
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.ListTemplates(r.Context(), httputil.GetUserID(r), r.URL.Query().Get("document_type"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, templates)
}

// CreateTemplate creates a template
// POST /api/templates
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req authoringSvc.CreateTemplateRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	tmpl, err := h.templateService.CreateTemplate(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tmpl)
}

// DefaultTemplate returns the template exports use for a document type
// GET /api/templates/default?document_type=word|powerpoint
func (h *TemplateHandler) DefaultTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templateService.DefaultTemplate(r.Context(), httputil.GetUserID(r), r.URL.Query().Get("document_type"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tmpl)
}

// GetTemplate retrieves a template by ID
// GET /api/templates/{id}
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Template ID")
	if !ok {
		return
	}

	tmpl, err := h.templateService.GetTemplate(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tmpl)
}

// UpdateTemplate applies a partial update
// PATCH /api/templates/{id}
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Template ID")
	if !ok {
		return
	}

	var req authoringSvc.UpdateTemplateRequest
	if !parseBody(w, r, &req) {
		return
	}

	tmpl, err := h.templateService.UpdateTemplate(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tmpl)
}

// DeleteTemplate deletes a template
// DELETE /api/templates/{id}
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Template ID")
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
