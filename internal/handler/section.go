package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"docsmith/internal/config"
	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	"docsmith/internal/httputil"
)

// SectionHandler handles per-section generation, refinement, comments and feedback
type SectionHandler struct {
	sectionService    authoringSvc.SectionService
	generationService authoringSvc.GenerationService
	logger            *slog.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(
	sectionService authoringSvc.SectionService,
	generationService authoringSvc.GenerationService,
	logger *slog.Logger,
) *SectionHandler {
	return &SectionHandler{
		sectionService:    sectionService,
		generationService: generationService,
		logger:            logger,
	}
}

type refineBody struct {
	Prompt string `json:"prompt"`
}

type commentBody struct {
	Comment string `json:"comment"`
}

type feedbackBody struct {
	Reaction httputil.Optional[string] `json:"reaction"`
}

// sectionPath reads the project and section path values
func sectionPath(w http.ResponseWriter, r *http.Request) (projectID, sectionID string, ok bool) {
	if projectID, ok = PathParam(w, r, "id", "Project ID"); !ok {
		return "", "", false
	}
	if sectionID, ok = PathParam(w, r, "sectionID", "Section ID"); !ok {
		return "", "", false
	}
	return projectID, sectionID, true
}

// GenerateSection generates content for an empty section
// POST /api/projects/{id}/sections/{sectionID}/generate
func (h *SectionHandler) GenerateSection(w http.ResponseWriter, r *http.Request) {
	projectID, sectionID, ok := sectionPath(w, r)
	if !ok {
		return
	}

	result, err := h.sectionService.GenerateSection(r.Context(), projectID, httputil.GetUserID(r), sectionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// RefineSection rewrites a section following a prompt
// POST /api/projects/{id}/sections/{sectionID}/refine
func (h *SectionHandler) RefineSection(w http.ResponseWriter, r *http.Request) {
	projectID, sectionID, ok := sectionPath(w, r)
	if !ok {
		return
	}

	var body refineBody
	if !parseBody(w, r, &body) {
		return
	}

	result, err := h.sectionService.RefineSection(r.Context(), projectID, httputil.GetUserID(r), &authoringSvc.RefineRequest{
		SectionID: sectionID,
		Prompt:    body.Prompt,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// AddComment records a comment on a section
// POST /api/projects/{id}/sections/{sectionID}/comments
func (h *SectionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	projectID, sectionID, ok := sectionPath(w, r)
	if !ok {
		return
	}

	var body commentBody
	if !parseBody(w, r, &body) {
		return
	}

	rec, err := h.sectionService.AddComment(r.Context(), projectID, httputil.GetUserID(r), &authoringSvc.CommentRequest{
		SectionID: sectionID,
		Comment:   body.Comment,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rec)
}

// SetFeedback applies a like/dislike click; null clears
// PUT /api/projects/{id}/sections/{sectionID}/feedback
func (h *SectionHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	projectID, sectionID, ok := sectionPath(w, r)
	if !ok {
		return
	}

	var body feedbackBody
	if !parseBody(w, r, &body) {
		return
	}
	if !body.Reaction.Present {
		httputil.RespondError(w, http.StatusBadRequest, "reaction is required (use null to clear)")
		return
	}

	var reaction *models.Reaction
	if body.Reaction.Value != nil {
		parsed, err := models.ParseReaction(*body.Reaction.Value)
		if err != nil {
			handleError(w, fmt.Errorf("%w: %v", domain.ErrInvalidReaction, err))
			return
		}
		reaction = &parsed
	}

	result, err := h.sectionService.SetFeedback(r.Context(), projectID, httputil.GetUserID(r), sectionID, reaction)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GetFeedback returns section id -> reaction for the project's document
// GET /api/projects/{id}/feedback
func (h *SectionHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	feedback, err := h.sectionService.FeedbackMap(r.Context(), projectID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"feedback": feedback})
}

// GetHistory lists refinement and comment records, newest first
// GET /api/projects/{id}/history?section_id=&offset=&limit=
// GET /api/projects/{id}/sections/{sectionID}/history?offset=&limit=
func (h *SectionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	sectionID := r.PathValue("sectionID")
	if sectionID == "" {
		sectionID = r.URL.Query().Get("section_id")
	}

	page, err := h.sectionService.History(r.Context(), projectID, httputil.GetUserID(r), authoringSvc.HistoryQuery{
		SectionID: sectionID,
		Offset:    httputil.QueryInt(r, "offset", 0, 0, 1<<30),
		Limit:     httputil.QueryInt(r, "limit", 20, 1, config.MaxHistoryPageSize),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GenerateAll generates every section without content
// POST /api/projects/{id}/generate
func (h *SectionHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	result, err := h.generationService.GenerateAll(r.Context(), projectID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// GenerationStatus reports how much of the document has content
// GET /api/projects/{id}/generation-status
func (h *SectionHandler) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	projectID, ok := PathParam(w, r, "id", "Project ID")
	if !ok {
		return
	}

	status, err := h.generationService.Status(r.Context(), projectID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}
