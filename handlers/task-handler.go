package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/services"
	"github.com/HarshalBhogawade/project-management-backend/utils"
)

type TaskHandler struct {
	TaskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{TaskService: taskService}
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Project     string `json:"project" validate:"required"`
	AssignedTo  string `json:"assignedto" validate:"required"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"duedate" validate:"omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Project     *string `json:"project"`
	AssignedTo  *string `json:"assignedto"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"duedate"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid request data"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, err)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.Project)
	if err != nil {
		respondError(w, apperr.New(apperr.NotFound, "project not found"))
		return
	}
	assignedToID, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		respondError(w, apperr.New(apperr.NotFound, "assignee not found"))
		return
	}

	input := services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		Priority:     models.TaskPriority(req.Priority),
		ProjectID:    projectID,
		AssignedToID: assignedToID,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			respondError(w, err)
			return
		}
		input.DueDate = due
	}

	task, err := h.TaskService.Create(r.Context(), caller, input)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s by %s", task.ID.Hex(), task.ProjectID.Hex(), caller.ID.Hex())
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "task created successfully",
		"success": true,
		"taskid":  task.ID.Hex(),
	})
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	page, limit := parsePagination(r)
	query := r.URL.Query()
	filters := services.TaskFilters{
		Status:    query.Get("status"),
		Priority:  query.Get("priority"),
		ProjectID: query.Get("project"),
	}

	result, err := h.TaskService.List(r.Context(), caller, page, limit, filters)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r, "task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.TaskService.Get(r.Context(), caller, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r, "task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid request data"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, err)
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Project != nil {
		projectID, err := primitive.ObjectIDFromHex(*req.Project)
		if err != nil {
			respondError(w, apperr.New(apperr.NotFound, "project not found"))
			return
		}
		patch.ProjectID = &projectID
	}
	if req.AssignedTo != nil {
		assignedToID, err := primitive.ObjectIDFromHex(*req.AssignedTo)
		if err != nil {
			respondError(w, apperr.New(apperr.NotFound, "assignee not found"))
			return
		}
		patch.AssignedToID = &assignedToID
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			respondError(w, err)
			return
		}
		patch.DueDate = due
	}

	task, err := h.TaskService.Update(r.Context(), caller, id, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", id.Hex(), caller.ID.Hex())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := pathID(r, "task not found")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.TaskService.Delete(r.Context(), caller, id); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id.Hex(), caller.ID.Hex())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "task deleted successfully",
	})
}
