package models

import "golang.org/x/crypto/bcrypt"

// Credential is a stored password hash. The zero value means the account has
// no password at all (federation-only sign-in), which callers must treat as a
// distinct state rather than an empty hash.
type Credential string

// NewCredential hashes a plaintext password with bcrypt.
func NewCredential(plaintext string) (Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return Credential(hash), nil
}

// IsSet reports whether a password hash is stored.
func (c Credential) IsSet() bool {
	return c != ""
}

// Verify checks a plaintext password against the stored hash. An unset
// credential never verifies.
func (c Credential) Verify(plaintext string) bool {
	if !c.IsSet() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c), []byte(plaintext)) == nil
}
