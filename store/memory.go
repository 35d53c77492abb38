package store

import (
	"bytes"
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Collection used by the test suites. Documents go
// through a bson round-trip on the way in and out, so field names and types
// behave exactly as they would against a live collection. It evaluates the
// filter operators the services actually produce: field equality (including
// array membership), $or, $and and $in.
type Memory struct {
	mu     sync.Mutex
	docs   []bson.M
	unique [][]string
}

// NewMemory creates an empty Memory collection. Each uniqueKeys argument
// declares a set of fields that must be unique together, mirroring the
// unique indexes EnsureIndexes creates in MongoDB.
func NewMemory(uniqueKeys ...[]string) *Memory {
	return &Memory{unique: uniqueKeys}
}

func (m *Memory) FindOne(_ context.Context, filter bson.M, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if matchFilter(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return ErrNotFound
}

func (m *Memory) Find(_ context.Context, filter bson.M, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return decodeDocs(m.matching(filter), out)
}

func (m *Memory) FindPage(_ context.Context, filter bson.M, page, limit int64, out interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.matching(filter)
	sort.Slice(matched, func(i, j int) bool {
		return compareIDs(matched[i]["_id"], matched[j]["_id"]) < 0
	})
	total := int64(len(matched))

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return total, decodeDocs(matched[start:end], out)
}

func (m *Memory) CountDocuments(_ context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.matching(filter))), nil
}

func (m *Memory) InsertOne(_ context.Context, doc interface{}) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := bson.M{}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if err := bson.Unmarshal(raw, &normalized); err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := normalized["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		normalized["_id"] = id
	}

	for _, keys := range m.unique {
		for _, existing := range m.docs {
			if sameKeyValues(existing, normalized, keys) {
				return primitive.NilObjectID, ErrDuplicateKey
			}
		}
	}

	m.docs = append(m.docs, normalized)
	return id, nil
}

func (m *Memory) UpdateByID(_ context.Context, id primitive.ObjectID, update bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, _ := update["$set"].(bson.M)
	for _, doc := range m.docs {
		if equalValue(doc["_id"], id) {
			for k, v := range set {
				doc[k] = normalizeValue(v)
			}
			return 1, nil
		}
	}
	return 0, nil
}

func (m *Memory) DeleteByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, doc := range m.docs {
		if equalValue(doc["_id"], id) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *Memory) matching(filter bson.M) []bson.M {
	var matched []bson.M
	for _, doc := range m.docs {
		if matchFilter(doc, filter) {
			matched = append(matched, doc)
		}
	}
	return matched
}

func matchFilter(doc, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$and":
			for _, sub := range subFilters(cond) {
				if !matchFilter(doc, sub) {
					return false
				}
			}
		case "$or":
			any := false
			for _, sub := range subFilters(cond) {
				if matchFilter(doc, sub) {
					any = true
					break
				}
			}
			if !any {
				return false
			}
		default:
			if !matchField(doc[key], cond) {
				return false
			}
		}
	}
	return true
}

func subFilters(cond interface{}) []bson.M {
	var subs []bson.M
	switch v := cond.(type) {
	case bson.A:
		for _, item := range v {
			if sub, ok := item.(bson.M); ok {
				subs = append(subs, sub)
			}
		}
	case []bson.M:
		subs = v
	}
	return subs
}

func matchField(fieldVal, cond interface{}) bool {
	if ops, ok := cond.(bson.M); ok {
		for op, arg := range ops {
			if op != "$in" {
				return false
			}
			if !inList(fieldVal, arg) {
				return false
			}
		}
		return true
	}

	// Equality against an array field means membership, as in MongoDB.
	if rv := reflect.ValueOf(fieldVal); rv.IsValid() && rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if equalValue(rv.Index(i).Interface(), cond) {
				return true
			}
		}
		return false
	}
	return equalValue(fieldVal, cond)
}

func inList(fieldVal, arg interface{}) bool {
	list := reflect.ValueOf(arg)
	if list.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < list.Len(); i++ {
		if equalValue(fieldVal, list.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func equalValue(a, b interface{}) bool {
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}

// normalizeValue collapses the handful of type aliases that appear on
// either side of a comparison (stored document values versus filter values
// built in code) into comparable forms.
func normalizeValue(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

func compareIDs(a, b interface{}) int {
	ida, okA := a.(primitive.ObjectID)
	idb, okB := b.(primitive.ObjectID)
	if !okA || !okB {
		return 0
	}
	return bytes.Compare(ida[:], idb[:])
}

func decodeDoc(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeDocs(docs []bson.M, out interface{}) error {
	outv := reflect.ValueOf(out).Elem()
	slice := reflect.MakeSlice(outv.Type(), 0, len(docs))
	elemType := outv.Type().Elem()
	for _, doc := range docs {
		elem := reflect.New(elemType)
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	outv.Set(slice)
	return nil
}

func sameKeyValues(a, b bson.M, keys []string) bool {
	for _, key := range keys {
		if !equalValue(a[key], b[key]) {
			return false
		}
	}
	return true
}
