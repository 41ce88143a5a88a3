package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docsmith/internal/domain"
	"docsmith/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var sectionErr *domain.SectionError
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &sectionErr):
		extras := map[string]interface{}{"section_id": sectionErr.SectionID}
		httputil.RespondErrorWithExtras(w, sectionErr.StatusCode(),
			"section '"+sectionErr.SectionID+"': "+sectionErr.Kind.Error(), extras)
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidReaction):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam reads a required path value, writing a 400 when it is empty
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// parseBody decodes JSON, writing a 400 (or 413) on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
