package security

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// HashPassword returns a one-way salted hash of the plaintext. The
// plaintext is never stored.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares in constant effort; the caller must not
// distinguish "no such user" from "wrong password" in its external signal.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
