package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
	"github.com/sakif/shader-playground/internal/service"
)

// PresetHandler serves /api/presets.
type PresetHandler struct {
	service *service.PresetService
	logger  *slog.Logger
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(svc *service.PresetService, logger *slog.Logger) *PresetHandler {
	return &PresetHandler{service: svc, logger: logger}
}

// HandleList returns every preset, most recently saved first.
//
// HTTP: GET /api/presets
func (h *PresetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	presets, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presets)
}

// HandleGetByID returns one preset, or 404 when the id is unknown.
//
// HTTP: GET /api/presets/{id}
func (h *PresetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	preset, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if preset == nil {
		writeError(w, apperror.NotFound("preset", id))
		return
	}
	writeJSON(w, http.StatusOK, preset)
}

// HandleCreate stores a new preset. Any id or timestamps in the body are
// ignored; the store assigns them.
//
// HTTP: POST /api/presets
// REQUEST BODY: {"name": "glow", "shader_code": "...", "language": "glsl", "uniforms": "[]"}
func (h *PresetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var preset model.Preset
	if err := decodeBody(w, r, &preset); err != nil {
		h.logger.Warn("invalid preset body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	preset.ID = 0

	if _, err := h.service.Save(r.Context(), &preset); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, preset)
}

// HandleUpdate overwrites an existing preset. The id comes from the URL and
// created_at in the response is the stored one, whatever the body said.
//
// HTTP: PUT /api/presets/{id}
func (h *PresetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var preset model.Preset
	if err := decodeBody(w, r, &preset); err != nil {
		h.logger.Warn("invalid preset body", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	preset.ID = id

	if _, err := h.service.Save(r.Context(), &preset); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, preset)
}

// HandleDelete removes a preset. Deleting an unknown id still returns 204.
//
// HTTP: DELETE /api/presets/{id}
func (h *PresetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
