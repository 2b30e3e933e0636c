// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a container for tasks, owned by exactly one user.
//
// The owner always also has a members document with role "owner" and
// invitation_status "accepted"; stores enforce that pairing on create.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ProjectWithOwner is a project joined with its owner's public fields,
// used by list responses.
type ProjectWithOwner struct {
	Project `bson:",inline"`
	Owner   *PublicUser `bson:"owner,omitempty" json:"owner,omitempty"`
}
