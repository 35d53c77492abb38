// Package store wraps MongoDB collection access behind a narrow interface.
// It remaps driver errors into sentinels the services can act on: missing
// documents, duplicate-key violations from unique indexes, and an
// unavailable backend when the circuit breaker is open.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnavailable  = errors.New("store unavailable")
)

// Collection is the set of operations the services need. *Mongo implements
// it against a live database; *Memory implements it in-process for tests.
type Collection interface {
	// FindOne decodes the first document matching filter into out.
	FindOne(ctx context.Context, filter bson.M, out interface{}) error
	// Find decodes all documents matching filter into out (a slice pointer).
	Find(ctx context.Context, filter bson.M, out interface{}) error
	// FindPage decodes one page of matching documents into out and returns
	// the total number of matches. Pages are 1-based and ordered by id.
	FindPage(ctx context.Context, filter bson.M, page, limit int64, out interface{}) (int64, error)
	// CountDocuments returns the number of documents matching filter.
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	// InsertOne stores a document and returns its id.
	InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
	// UpdateByID applies update to the document with the given id and
	// returns the matched count.
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (int64, error)
	// DeleteByID removes the document with the given id and returns the
	// deleted count.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}
