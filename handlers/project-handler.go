package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/services"
	"github.com/HarshalBhogawade/project-management-backend/utils"
)

type ProjectHandler struct {
	ProjectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService}
}

type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid request data"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, err)
		return
	}

	project, err := h.ProjectService.Create(r.Context(), caller, req.Title, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", project.ID.Hex(), caller.ID.Hex())
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "project created successfully",
	})
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit := parsePagination(r)
	result, err := h.ProjectService.List(r.Context(), caller, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r, "project not found")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.ProjectService.Get(r.Context(), caller, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r, "project not found")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.ProjectService.Delete(r.Context(), caller, id); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by %s", id.Hex(), caller.ID.Hex())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "project deleted successfully",
	})
}
