package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
	"github.com/sakif/shader-playground/internal/service"
)

// ProjectHandler serves /api/projects. It mirrors PresetHandler.
type ProjectHandler struct {
	service *service.ProjectService
	logger  *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{service: svc, logger: logger}
}

// HandleList returns every project, most recently saved first.
//
// HTTP: GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// HandleGetByID returns one project, or 404 when the id is unknown.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if project == nil {
		writeError(w, apperror.NotFound("project", id))
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleCreate stores a new project.
//
// HTTP: POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var project model.Project
	if err := decodeBody(w, r, &project); err != nil {
		h.logger.Warn("invalid project body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	project.ID = 0

	if _, err := h.service.Save(r.Context(), &project); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// HandleUpdate overwrites an existing project.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var project model.Project
	if err := decodeBody(w, r, &project); err != nil {
		h.logger.Warn("invalid project body", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	project.ID = id

	if _, err := h.service.Save(r.Context(), &project); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleDelete removes a project. Unknown ids still get 204.
//
// HTTP: DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
