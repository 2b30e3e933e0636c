// internal/app/system/invites/invites.go

// Package invites issues and verifies the signed tokens carried in
// invitation emails. A token embeds the pending member's id and is valid
// until its signing-time expiry passes; expiry lives in the token itself,
// not in application state.
package invites

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultExpiry is how long an invitation link stays valid.
const DefaultExpiry = 72 * time.Hour

const tokenName = "invite"

// ErrInvalidToken is returned for tokens that are malformed, tampered
// with, or past their expiry.
var ErrInvalidToken = errors.New("invalid or expired invitation token")

// Tokens signs and verifies invitation tokens.
type Tokens struct {
	sc *securecookie.SecureCookie
}

// New builds a token signer keyed with signKey. Tokens older than expiry
// fail verification; expiry ≤ 0 falls back to DefaultExpiry.
func New(signKey string, expiry time.Duration) (*Tokens, error) {
	if signKey == "" {
		return nil, fmt.Errorf("invite signing key is empty")
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	sc := securecookie.New([]byte(signKey), nil)
	sc.MaxAge(int(expiry.Seconds()))
	return &Tokens{sc: sc}, nil
}

// Issue returns a signed token embedding the member id.
func (t *Tokens) Issue(memberID primitive.ObjectID) (string, error) {
	return t.sc.Encode(tokenName, memberID.Hex())
}

// Verify decodes a token back to the member id it was issued for.
// Tampered or expired tokens return ErrInvalidToken.
func (t *Tokens) Verify(token string) (primitive.ObjectID, error) {
	var hex string
	if err := t.sc.Decode(tokenName, token, &hex); err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}
