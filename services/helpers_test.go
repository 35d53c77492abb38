package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/store"
)

// seedMember adds a user to a project's member list directly through the
// store, the way an out-of-band membership grant would.
func seedMember(t *testing.T, projects store.Collection, projectID, userID primitive.ObjectID) {
	t.Helper()
	ctx := context.Background()

	var project models.Project
	if err := projects.FindOne(ctx, bson.M{"_id": projectID}, &project); err != nil {
		t.Fatalf("seed member: fetch project: %v", err)
	}
	members := append(project.Members, userID)
	if _, err := projects.UpdateByID(ctx, projectID, bson.M{"$set": bson.M{"members": members}}); err != nil {
		t.Fatalf("seed member: update project: %v", err)
	}
}

// seedUser stores a user record and returns it.
func seedUser(t *testing.T, users store.Collection, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Seeded",
		Email: primitive.NewObjectID().Hex() + "@example.com",
		Role:  role,
	}
	if _, err := users.InsertOne(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
