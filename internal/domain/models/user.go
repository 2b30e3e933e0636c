// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can own projects and join them through members.
//
// NOTE:
//   - Project membership is not embedded on User.
//     Use the members collection to discover a user's projects.
//   - PasswordHash is absent for accounts created through Google sign-in.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	// External identity (Google sign-in). Never serialized to clients.
	GoogleID           string `bson:"google_id,omitempty" json:"-"`
	GoogleAccessToken  string `bson:"google_access_token,omitempty" json:"-"`
	GoogleRefreshToken string `bson:"google_refresh_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the owner representation attached to project listings.
// It deliberately omits password and token material.
type PublicUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Email    string             `bson:"email" json:"email"`
}

// DirectoryUser is the entry shape for the user directory that assignment
// pickers consume. Email is withheld along with credential material.
type DirectoryUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
}
