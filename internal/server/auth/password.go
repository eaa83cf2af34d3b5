package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost factor the platform has always used; raising it
// invalidates no existing digests but slows login on low-end hosts.
const bcryptCost = 10

// HashPassword returns the bcrypt digest of plaintext. Callers must not log
// or persist the plaintext.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
// Comparison timing is handled by bcrypt itself.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
