package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/policy"
	"github.com/HarshalBhogawade/project-management-backend/store"
)

// TaskService orchestrates task operations. It validates referenced
// projects and assignees by existence lookups; there are no foreign keys
// in the store.
type TaskService struct {
	Tasks    store.Collection
	Projects store.Collection
	Users    store.Collection
}

func NewTaskService(tasks, projects, users store.Collection) *TaskService {
	return &TaskService{Tasks: tasks, Projects: projects, Users: users}
}

// CreateTaskInput carries the validated fields for a new task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	Priority     models.TaskPriority
	ProjectID    primitive.ObjectID
	AssignedToID primitive.ObjectID
	DueDate      *time.Time
}

// TaskFilters are the caller-supplied list filters. ProjectID is the raw
// query value; a non-hex value can never name a stored project and simply
// matches nothing.
type TaskFilters struct {
	Status    string
	Priority  string
	ProjectID string
}

// TaskPage is the paginated task listing response.
type TaskPage struct {
	Tasks      []models.Task `json:"tasks"`
	Page       int64         `json:"page"`
	TotalPages int64         `json:"totalPages"`
	Total      int64         `json:"total"`
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	ProjectID    *primitive.ObjectID
	AssignedToID *primitive.ObjectID
	DueDate      *time.Time
}

// Create persists a new task after validating the referenced project and
// assignee. The (title, projectId, assignedToId) triple must be unique.
func (s *TaskService) Create(ctx context.Context, caller policy.Caller, in CreateTaskInput) (*models.Task, error) {
	if err := policy.AuthorizeMutation(caller, policy.ActionCreateTask); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": in.ProjectID}, &project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "project not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch project", err)
	}

	var assignee models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": in.AssignedToID}, &assignee); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "assignee not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch assignee", err)
	}

	dupFilter := bson.M{
		"title":        in.Title,
		"projectId":    in.ProjectID,
		"assignedToId": in.AssignedToID,
	}
	var existing models.Task
	err := s.Tasks.FindOne(ctx, dupFilter, &existing)
	if err == nil {
		return nil, apperr.New(apperr.Conflict, "task with this title is already assigned to this user in this project")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "failed to check existing task", err)
	}

	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Status.IsValid() {
		return nil, apperr.New(apperr.Validation, "status must be one of: todo in_progress done")
	}
	if !in.Priority.IsValid() {
		return nil, apperr.New(apperr.Validation, "priority must be one of: low medium high")
	}

	task := &models.Task{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Priority:     in.Priority,
		ProjectID:    in.ProjectID,
		CreatedByID:  caller.ID,
		AssignedToID: in.AssignedToID,
		DueDate:      in.DueDate,
	}

	if _, err := s.Tasks.InsertOne(ctx, task); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperr.New(apperr.Conflict, "task with this title is already assigned to this user in this project")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create task", err)
	}
	return task, nil
}

// List returns the page of tasks visible to the caller, narrowed by the
// optional status/priority/project filters.
func (s *TaskService) List(ctx context.Context, caller policy.Caller, page, limit int64, filters TaskFilters) (*TaskPage, error) {
	userFilters := bson.M{}
	if filters.Status != "" {
		userFilters["status"] = filters.Status
	}
	if filters.Priority != "" {
		userFilters["priority"] = filters.Priority
	}
	if filters.ProjectID != "" {
		oid, err := primitive.ObjectIDFromHex(filters.ProjectID)
		if err != nil {
			oid = primitive.NilObjectID
		}
		userFilters["projectId"] = oid
	}

	var memberProjectIDs []primitive.ObjectID
	if !caller.IsAdmin() {
		ids, err := s.memberProjectIDs(ctx, caller)
		if err != nil {
			return nil, err
		}
		memberProjectIDs = ids
	}

	filter := policy.TaskListFilter(caller, memberProjectIDs, userFilters)

	var tasks []models.Task
	total, err := s.Tasks.FindPage(ctx, filter, page, limit, &tasks)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return &TaskPage{
		Tasks:      tasks,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
		Total:      total,
	}, nil
}

// Get returns a single task. Admin and the assignee short-circuit to
// allow; anyone else must be a member of the task's project. A task whose
// project has been deleted reads as not found, never as forbidden.
func (s *TaskService) Get(ctx context.Context, caller policy.Caller, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": id}, &task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "task not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch task", err)
	}

	if caller.IsAdmin() || task.AssignedToID == caller.ID {
		return &task, nil
	}

	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": task.ProjectID}, &project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "project not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch project", err)
	}

	if !policy.CanReadTask(caller, &task, &project) {
		return nil, apperr.New(apperr.Forbidden, "you do not have access to this task")
	}
	return &task, nil
}

// Update applies a partial merge of the provided fields and returns the
// updated task. Status transitions are not ordered; any valid enum value
// is accepted.
func (s *TaskService) Update(ctx context.Context, caller policy.Caller, id primitive.ObjectID, patch TaskPatch) (*models.Task, error) {
	if err := policy.AuthorizeMutation(caller, policy.ActionUpdateTask); err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": id}, &task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "task not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch task", err)
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, apperr.New(apperr.Validation, "status must be one of: todo in_progress done")
		}
		set["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		if !patch.Priority.IsValid() {
			return nil, apperr.New(apperr.Validation, "priority must be one of: low medium high")
		}
		set["priority"] = string(*patch.Priority)
	}
	if patch.ProjectID != nil {
		var project models.Project
		if err := s.Projects.FindOne(ctx, bson.M{"_id": *patch.ProjectID}, &project); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.New(apperr.NotFound, "project not found")
			}
			return nil, apperr.Wrap(apperr.Internal, "failed to fetch project", err)
		}
		set["projectId"] = *patch.ProjectID
	}
	if patch.AssignedToID != nil {
		var assignee models.User
		if err := s.Users.FindOne(ctx, bson.M{"_id": *patch.AssignedToID}, &assignee); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.New(apperr.NotFound, "assignee not found")
			}
			return nil, apperr.Wrap(apperr.Internal, "failed to fetch assignee", err)
		}
		set["assignedToId"] = *patch.AssignedToID
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	if len(set) > 0 {
		if _, err := s.Tasks.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return nil, apperr.New(apperr.Conflict, "task with this title is already assigned to this user in this project")
			}
			return nil, apperr.Wrap(apperr.Internal, "failed to update task", err)
		}
	}

	var updated models.Task
	if err := s.Tasks.FindOne(ctx, bson.M{"_id": id}, &updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Deleted between the update and the read-back.
			return nil, apperr.New(apperr.NotFound, "task not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch updated task", err)
	}
	return &updated, nil
}

// Delete removes a task. Admin only.
func (s *TaskService) Delete(ctx context.Context, caller policy.Caller, id primitive.ObjectID) error {
	if err := policy.AuthorizeMutation(caller, policy.ActionDeleteTask); err != nil {
		return err
	}

	deleted, err := s.Tasks.DeleteByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete task", err)
	}
	if deleted == 0 {
		return apperr.New(apperr.NotFound, "task not found")
	}
	return nil
}

func (s *TaskService) memberProjectIDs(ctx context.Context, caller policy.Caller) ([]primitive.ObjectID, error) {
	var projects []models.Project
	if err := s.Projects.Find(ctx, bson.M{"members": caller.ID}, &projects); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to resolve project memberships", err)
	}

	ids := make([]primitive.ObjectID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
