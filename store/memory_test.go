package store

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/models"
)

func TestMemoryFindOne(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	user := models.User{ID: primitive.NewObjectID(), Name: "Ana", Email: "ana@example.com", Role: models.RoleUser}
	if _, err := m.InsertOne(ctx, user); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var got models.User
	if err := m.FindOne(ctx, bson.M{"email": "ana@example.com"}, &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != user.ID || got.Name != "Ana" {
		t.Fatalf("got %+v", got)
	}

	if err := m.FindOne(ctx, bson.M{"email": "nobody@example.com"}, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryUniqueKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory([]string{"title", "ownerId"})
	owner := primitive.NewObjectID()

	first := models.Project{ID: primitive.NewObjectID(), Title: "Redesign", OwnerID: owner}
	if _, err := m.InsertOne(ctx, first); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	dup := models.Project{ID: primitive.NewObjectID(), Title: "Redesign", OwnerID: owner}
	if _, err := m.InsertOne(ctx, dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Same title under another owner is fine.
	other := models.Project{ID: primitive.NewObjectID(), Title: "Redesign", OwnerID: primitive.NewObjectID()}
	if _, err := m.InsertOne(ctx, other); err != nil {
		t.Fatalf("other owner insert: %v", err)
	}
}

func TestMemoryArrayMembership(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	member := primitive.NewObjectID()

	project := models.Project{
		ID:      primitive.NewObjectID(),
		Title:   "Shared",
		OwnerID: primitive.NewObjectID(),
		Members: []primitive.ObjectID{member},
	}
	if _, err := m.InsertOne(ctx, project); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var got models.Project
	if err := m.FindOne(ctx, bson.M{"members": member}, &got); err != nil {
		t.Fatalf("membership equality should match array elements: %v", err)
	}
	if err := m.FindOne(ctx, bson.M{"members": primitive.NewObjectID()}, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-member, got %v", err)
	}
}

func TestMemoryOrAndIn(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	assignee := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	tasks := []models.Task{
		{ID: primitive.NewObjectID(), Title: "a", Status: models.StatusTodo, AssignedToID: assignee, ProjectID: primitive.NewObjectID()},
		{ID: primitive.NewObjectID(), Title: "b", Status: models.StatusDone, AssignedToID: primitive.NewObjectID(), ProjectID: projectID},
		{ID: primitive.NewObjectID(), Title: "c", Status: models.StatusTodo, AssignedToID: primitive.NewObjectID(), ProjectID: primitive.NewObjectID()},
	}
	for _, task := range tasks {
		if _, err := m.InsertOne(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	scope := bson.M{"$or": bson.A{
		bson.M{"assignedToId": assignee},
		bson.M{"projectId": bson.M{"$in": []primitive.ObjectID{projectID}}},
	}}

	var got []models.Task
	if err := m.Find(ctx, scope, &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected tasks a and b, got %d", len(got))
	}

	combined := bson.M{"$and": bson.A{scope, bson.M{"status": "done"}}}
	if err := m.Find(ctx, combined, &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 1 || got[0].Title != "b" {
		t.Fatalf("expected only task b, got %+v", got)
	}
}

func TestMemoryFindPage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 5; i++ {
		task := models.Task{ID: primitive.NewObjectID(), Title: "t", Status: models.StatusTodo}
		if _, err := m.InsertOne(ctx, task); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var page []models.Task
	total, err := m.FindPage(ctx, bson.M{}, 2, 2, &page)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}

	total, err = m.FindPage(ctx, bson.M{}, 3, 2, &page)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("last page size = %d, want 1", len(page))
	}

	// Past the end is an empty page, not an error.
	total, err = m.FindPage(ctx, bson.M{}, 9, 2, &page)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 0 || total != 5 {
		t.Fatalf("expected empty page with total 5, got %d/%d", len(page), total)
	}
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	task := models.Task{ID: primitive.NewObjectID(), Title: "t", Status: models.StatusTodo}
	id, err := m.InsertOne(ctx, task)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	matched, err := m.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": "done"}})
	if err != nil || matched != 1 {
		t.Fatalf("update: matched=%d err=%v", matched, err)
	}

	var got models.Task
	if err := m.FindOne(ctx, bson.M{"_id": id}, &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != models.StatusDone {
		t.Fatalf("status = %q, want done", got.Status)
	}

	deleted, err := m.DeleteByID(ctx, id)
	if err != nil || deleted != 1 {
		t.Fatalf("delete: deleted=%d err=%v", deleted, err)
	}
	if deleted, _ := m.DeleteByID(ctx, id); deleted != 0 {
		t.Fatal("second delete should match nothing")
	}
}
