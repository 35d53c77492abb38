// Package policy is the central authority for access decisions: whether a
// caller may perform an action on a resource, and which subset of resources
// a caller may list. Decisions are pure functions of the caller and the
// resource data so they can be tested without a live store.
package policy

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/models"
)

// Caller is the authenticated identity making a request. It is threaded as
// an explicit parameter into every policy and service call, never read from
// ambient state.
type Caller struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

type Action string

const (
	ActionCreateProject Action = "create_project"
	ActionDeleteProject Action = "delete_project"
	ActionCreateTask    Action = "create_task"
	ActionUpdateTask    Action = "update_task"
	ActionDeleteTask    Action = "delete_task"
)

// AuthorizeMutation gates all write actions. Every mutation is admin-only;
// the admin bypass is unconditional and no further scoping exists.
func AuthorizeMutation(caller Caller, action Action) error {
	if caller.IsAdmin() {
		return nil
	}
	return apperr.New(apperr.Forbidden, "insufficient permissions for "+string(action))
}

// CanReadProject reports whether the caller may read a single project:
// admin, owner, or member.
func CanReadProject(caller Caller, project *models.Project) bool {
	if caller.IsAdmin() {
		return true
	}
	return project.OwnerID == caller.ID || project.HasMember(caller.ID)
}

// CanReadTask reports whether the caller may read a single task: admin,
// assignee, or member of the task's project. The project must be the one
// referenced by the task; resolving it is the caller's responsibility.
func CanReadTask(caller Caller, task *models.Task, project *models.Project) bool {
	if caller.IsAdmin() {
		return true
	}
	if task.AssignedToID == caller.ID {
		return true
	}
	return project != nil && project.HasMember(caller.ID)
}

// ProjectListFilter computes the query predicate for listing projects.
// Admins see every record matching the user filters; everyone else is
// restricted to projects they own or belong to.
func ProjectListFilter(caller Caller, userFilters bson.M) bson.M {
	if caller.IsAdmin() {
		return userFilters
	}
	scope := bson.M{"$or": bson.A{
		bson.M{"ownerId": caller.ID},
		bson.M{"members": caller.ID},
	}}
	return combine(scope, userFilters)
}

// TaskListFilter computes the query predicate for listing tasks.
// memberProjectIDs are the projects where the caller is a member; for
// non-admins a task is visible when assigned to the caller or belonging to
// one of those projects.
func TaskListFilter(caller Caller, memberProjectIDs []primitive.ObjectID, userFilters bson.M) bson.M {
	if caller.IsAdmin() {
		return userFilters
	}
	if memberProjectIDs == nil {
		memberProjectIDs = []primitive.ObjectID{}
	}
	scope := bson.M{"$or": bson.A{
		bson.M{"assignedToId": caller.ID},
		bson.M{"projectId": bson.M{"$in": memberProjectIDs}},
	}}
	return combine(scope, userFilters)
}

func combine(scope, userFilters bson.M) bson.M {
	if len(userFilters) == 0 {
		return scope
	}
	return bson.M{"$and": bson.A{scope, userFilters}}
}
