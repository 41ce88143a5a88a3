package handler

import "net/http"

// Handlers groups the HTTP handlers of the API
type Handlers struct {
	Project  *ProjectHandler
	Document *DocumentHandler
	Section  *SectionHandler
	Template *TemplateHandler
}

// RegisterRoutes mounts every API route on mux (Go 1.22+ patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", h.Document.HealthCheck)

	// Projects
	mux.HandleFunc("GET /api/projects", h.Project.ListProjects)
	mux.HandleFunc("POST /api/projects", h.Project.CreateProject)
	mux.HandleFunc("GET /api/projects/{id}", h.Project.GetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.Project.UpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Project.DeleteProject)

	// Outline
	mux.HandleFunc("GET /api/projects/{id}/document", h.Document.GetDocument)
	mux.HandleFunc("PUT /api/projects/{id}/document", h.Document.ConfigureDocument)
	mux.HandleFunc("PUT /api/projects/{id}/document/order", h.Document.ReorderSections)
	mux.HandleFunc("POST /api/projects/{id}/outline/suggest", h.Document.SuggestOutline)

	// Generation
	mux.HandleFunc("POST /api/projects/{id}/generate", h.Section.GenerateAll)
	mux.HandleFunc("GET /api/projects/{id}/generation-status", h.Section.GenerationStatus)
	mux.HandleFunc("POST /api/projects/{id}/sections/{sectionID}/generate", h.Section.GenerateSection)

	// Refinement, comments, feedback
	mux.HandleFunc("POST /api/projects/{id}/sections/{sectionID}/refine", h.Section.RefineSection)
	mux.HandleFunc("POST /api/projects/{id}/sections/{sectionID}/comments", h.Section.AddComment)
	mux.HandleFunc("PUT /api/projects/{id}/sections/{sectionID}/feedback", h.Section.SetFeedback)
	mux.HandleFunc("GET /api/projects/{id}/feedback", h.Section.GetFeedback)
	mux.HandleFunc("GET /api/projects/{id}/history", h.Section.GetHistory)
	mux.HandleFunc("GET /api/projects/{id}/sections/{sectionID}/history", h.Section.GetHistory)

	// Templates; the literal "default" segment wins over {id}
	mux.HandleFunc("GET /api/templates", h.Template.ListTemplates)
	mux.HandleFunc("POST /api/templates", h.Template.CreateTemplate)
	mux.HandleFunc("GET /api/templates/default", h.Template.DefaultTemplate)
	mux.HandleFunc("GET /api/templates/{id}", h.Template.GetTemplate)
	mux.HandleFunc("PATCH /api/templates/{id}", h.Template.UpdateTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", h.Template.DeleteTemplate)

	// Export
	mux.HandleFunc("GET /api/export/formats", h.Document.ListExportFormats)
	mux.HandleFunc("GET /api/projects/{id}/export", h.Document.ExportDocument)
}
