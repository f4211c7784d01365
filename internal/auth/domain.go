package auth

import "errors"

// Credential is the authentication view of a principal, loaded by email.
type Credential struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
}

// ErrInvalidCredentials indicates login failure. It deliberately covers
// unknown email, wrong password and deactivated accounts alike.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")
