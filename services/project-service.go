package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/policy"
	"github.com/HarshalBhogawade/project-management-backend/store"
)

// ProjectService orchestrates project operations: policy check, duplicate
// prevention, store access and response shaping.
type ProjectService struct {
	Projects store.Collection
}

func NewProjectService(projects store.Collection) *ProjectService {
	return &ProjectService{Projects: projects}
}

// ProjectPage is the paginated project listing response.
type ProjectPage struct {
	Projects   []models.Project `json:"projects"`
	Page       int64            `json:"page"`
	TotalPages int64            `json:"totalPages"`
	Total      int64            `json:"total"`
}

// Create persists a new project owned by the caller. The (title, ownerId)
// pair must be unique.
func (s *ProjectService) Create(ctx context.Context, caller policy.Caller, title, description string) (*models.Project, error) {
	if err := policy.AuthorizeMutation(caller, policy.ActionCreateProject); err != nil {
		return nil, err
	}

	var existing models.Project
	err := s.Projects.FindOne(ctx, bson.M{"title": title, "ownerId": caller.ID}, &existing)
	if err == nil {
		return nil, apperr.New(apperr.Conflict, "project with this title already exists for this owner")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "failed to check existing project", err)
	}

	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		OwnerID:     caller.ID,
		Members:     []primitive.ObjectID{},
	}

	if _, err := s.Projects.InsertOne(ctx, project); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// The insert raced another create past the pre-check; the unique
			// index reports it and the outcome is the same conflict.
			return nil, apperr.New(apperr.Conflict, "project with this title already exists for this owner")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create project", err)
	}
	return project, nil
}

// List returns the page of projects visible to the caller.
func (s *ProjectService) List(ctx context.Context, caller policy.Caller, page, limit int64) (*ProjectPage, error) {
	filter := policy.ProjectListFilter(caller, bson.M{})

	var projects []models.Project
	total, err := s.Projects.FindPage(ctx, filter, page, limit, &projects)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list projects", err)
	}
	if projects == nil {
		projects = []models.Project{}
	}

	return &ProjectPage{
		Projects:   projects,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
		Total:      total,
	}, nil
}

// Get returns a single project if the caller is admin, owner or member.
func (s *ProjectService) Get(ctx context.Context, caller policy.Caller, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.Projects.FindOne(ctx, bson.M{"_id": id}, &project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "project not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch project", err)
	}

	if !policy.CanReadProject(caller, &project) {
		return nil, apperr.New(apperr.Forbidden, "you do not have access to this project")
	}
	return &project, nil
}

// Delete removes a project. Admin only.
func (s *ProjectService) Delete(ctx context.Context, caller policy.Caller, id primitive.ObjectID) error {
	if err := policy.AuthorizeMutation(caller, policy.ActionDeleteProject); err != nil {
		return err
	}

	deleted, err := s.Projects.DeleteByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete project", err)
	}
	if deleted == 0 {
		return apperr.New(apperr.NotFound, "project not found")
	}
	return nil
}
