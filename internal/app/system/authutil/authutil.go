// internal/app/system/authutil/authutil.go
package authutil

import "golang.org/x/crypto/bcrypt"

// BcryptCost for password hashes.
const BcryptCost = 10

// HashPassword returns the bcrypt hash of a plaintext password.
// The plaintext is never stored.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// A blank hash (externally-authenticated account) never matches.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
