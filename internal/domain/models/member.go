// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles. Owners manage the project; editors may invite and work on
// tasks; viewers have read access.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Invitation lifecycle states. Pending transitions to accepted or declined;
// both of those are terminal.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

// IsValidRole reports whether role is one of the member roles.
func IsValidRole(role string) bool {
	return role == RoleOwner || role == RoleEditor || role == RoleViewer
}

// Member is the authoritative join between users and projects.
// Exactly one document per (user_id, project_id); a unique index enforces it.
//
// A user has access to a project's tasks if and only if a member document
// exists with invitation_status "accepted".
type Member struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProjectID        primitive.ObjectID `bson:"project_id" json:"project_id"`
	Role             string             `bson:"role" json:"role"`
	InvitationStatus string             `bson:"invitation_status" json:"invitation_status"`
	JoinedAt         *time.Time         `bson:"joined_at,omitempty" json:"joined_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
