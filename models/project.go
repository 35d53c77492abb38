package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Project groups tasks under an owner. Members are users granted read
// access without owning the project. The (title, ownerId) pair is unique.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID   `bson:"ownerId" json:"ownerId"`
	Members     []primitive.ObjectID `bson:"members" json:"members"`
}

// HasMember reports whether the given user is in the project's member list.
func (p *Project) HasMember(userID primitive.ObjectID) bool {
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}
