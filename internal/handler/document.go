package handler

import (
	"log/slog"
	"net/http"

	authoringSvc "docsmith/internal/domain/services/authoring"
	"docsmith/internal/httputil"
)

// DocumentHandler handles outline configuration and export
type DocumentHandler struct {
	docService    authoringSvc.DocumentService
	exportService authoringSvc.ExportService
	logger        *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService authoringSvc.DocumentService, exportService authoringSvc.ExportService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:    docService,
		exportService: exportService,
		logger:        logger,
	}
}

// GetDocument returns structure, content and version
// GET /api/projects/{id}/document
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), projectID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ConfigureDocument saves the outline, creating the document on first save
// PUT /api/projects/{id}/document
func (h *DocumentHandler) ConfigureDocument(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req authoringSvc.ConfigureDocumentRequest
	if !parseBody(w, r, &req) {
		return
	}

	doc, err := h.docService.Configure(r.Context(), projectID, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ReorderSections rewrites section order
// PUT /api/projects/{id}/document/order
func (h *DocumentHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req authoringSvc.ReorderRequest
	if !parseBody(w, r, &req) {
		return
	}

	doc, err := h.docService.Reorder(r.Context(), projectID, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// SuggestOutline proposes a structure for the project's topic
// POST /api/projects/{id}/outline/suggest
func (h *DocumentHandler) SuggestOutline(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req authoringSvc.SuggestOutlineRequest
	if r.ContentLength != 0 {
		if !parseBody(w, r, &req) {
			return
		}
	}

	suggestion, err := h.docService.SuggestOutline(r.Context(), projectID, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, suggestion)
}

// ExportDocument downloads the document
// GET /api/projects/{id}/export?format=markdown|html&template_id=
func (h *DocumentHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	result, err := h.exportService.Export(r.Context(), &authoringSvc.ExportRequest{
		ProjectID:  projectID,
		UserID:     httputil.GetUserID(r),
		Format:     format,
		TemplateID: r.URL.Query().Get("template_id"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondFile(w, result.Filename, result.ContentType, result.Body)
}

// ListExportFormats lists the available export formats
// GET /api/export/formats
func (h *DocumentHandler) ListExportFormats(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"formats": h.exportService.Formats()})
}

// HealthCheck handles health check requests
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
