package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task belongs to a project and is assigned to a single user. The
// (title, projectId, assignedToId) triple is unique so the same-titled
// task cannot be assigned twice to the same person in one project.
type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Status       TaskStatus         `bson:"status" json:"status"`
	Priority     TaskPriority       `bson:"priority" json:"priority"`
	ProjectID    primitive.ObjectID `bson:"projectId" json:"projectId"`
	CreatedByID  primitive.ObjectID `bson:"createdById" json:"createdById"`
	AssignedToID primitive.ObjectID `bson:"assignedToId" json:"assignedToId"`
	DueDate      *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
}
