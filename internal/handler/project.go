package handler

import (
	"log/slog"
	"net/http"

	authoringSvc "docsmith/internal/domain/services/authoring"
	"docsmith/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService authoringSvc.ProjectService
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService authoringSvc.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects retrieves all projects for the user
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.ListProjects(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, projects)
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req authoringSvc.CreateProjectRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	project, err := h.projectService.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// GetProject retrieves a project by ID
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// UpdateProject updates title and/or main topic
// PATCH /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	var req authoringSvc.UpdateProjectRequest
	if !parseBody(w, r, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), id, httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project and its document
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
