package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes the services rely on. The
// indexes are the authoritative guard against duplicate races: an insert
// that slips past the pre-check still fails with a duplicate-key error,
// which the store surfaces as ErrDuplicateKey.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("projects").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: 1},
			{Key: "ownerId", Value: 1},
		},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: 1},
			{Key: "projectId", Value: 1},
			{Key: "assignedToId", Value: 1},
		},
		Options: unique,
	})
	return err
}
