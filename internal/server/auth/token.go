// Package auth holds the credential primitives: opaque session-token
// generation and password hashing. This is the only package that touches
// plaintext passwords.
package auth

import "github.com/polawatHuang/mangaara-backend/internal/common"

// sessionTokenBytes is the entropy of a session token. 32 random bytes
// hex-encode to a 64-character opaque string.
const sessionTokenBytes = 32

// GenerateSessionToken produces a cryptographically random opaque token.
// Tokens are pure lookup keys and are never parsed for embedded data;
// uniqueness is enforced by the sessions.token unique key.
func GenerateSessionToken() (string, error) {
	return common.MakeRandHexString(sessionTokenBytes)
}
