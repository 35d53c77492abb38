package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Collection backed by a live MongoDB collection. Every
// operation runs through the circuit breaker; "no documents" and
// duplicate-key responses are healthy round-trips and never count as
// breaker failures.
type Mongo struct {
	coll *mongo.Collection
	cb   *gobreaker.CircuitBreaker
}

func NewMongo(coll *mongo.Collection, cb *gobreaker.CircuitBreaker) *Mongo {
	return &Mongo{coll: coll, cb: cb}
}

func (m *Mongo) execute(fn func() error) error {
	if m.cb == nil {
		return fn()
	}
	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (m *Mongo) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	missing := false
	err := m.execute(func() error {
		if err := m.coll.FindOne(ctx, filter).Decode(out); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				missing = true
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if missing {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Find(ctx context.Context, filter bson.M, out interface{}) error {
	return m.execute(func() error {
		cursor, err := m.coll.Find(ctx, filter)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, out)
	})
}

func (m *Mongo) FindPage(ctx context.Context, filter bson.M, page, limit int64, out interface{}) (int64, error) {
	var total int64
	err := m.execute(func() error {
		n, err := m.coll.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		total = n

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "_id", Value: 1}})
		cursor, err := m.coll.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, out)
	})
	return total, err
}

func (m *Mongo) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	var total int64
	err := m.execute(func() error {
		n, err := m.coll.CountDocuments(ctx, filter)
		total = n
		return err
	})
	return total, err
}

func (m *Mongo) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	var id primitive.ObjectID
	duplicate := false
	err := m.execute(func() error {
		result, err := m.coll.InsertOne(ctx, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				duplicate = true
				return nil
			}
			return err
		}
		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			id = oid
		}
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if duplicate {
		return primitive.NilObjectID, ErrDuplicateKey
	}
	return id, nil
}

func (m *Mongo) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (int64, error) {
	var matched int64
	duplicate := false
	err := m.execute(func() error {
		result, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				duplicate = true
				return nil
			}
			return err
		}
		matched = result.MatchedCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	if duplicate {
		return 0, ErrDuplicateKey
	}
	return matched, nil
}

func (m *Mongo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var deleted int64
	err := m.execute(func() error {
		result, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = result.DeletedCount
		return nil
	})
	return deleted, err
}
