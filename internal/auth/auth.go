// Package auth holds the identity of the caller of a request and password
// hashing helpers.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

type Role int

// Roles are ordered: a higher role passes every gate of a lower one.
const (
	RoleAnonymous Role = iota
	RoleUser
	RoleCompany
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleCompany:
		return "company"
	case RoleAdmin:
		return "admin"
	}
	return "anonymous"
}

// Caller is the identity bound to the current request.
type Caller struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Anonymous is the caller of a request without a valid session.
var Anonymous = Caller{Role: RoleAnonymous}

func (c Caller) IsAuthenticated() bool {
	return c.Role != RoleAnonymous
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsCompany() bool {
	return c.Role == RoleCompany
}

func (c Caller) IsUser() bool {
	return c.Role == RoleUser
}

// HasRole reports whether the caller passes a gate requiring role.
func (c Caller) HasRole(role Role) bool {
	return c.Role >= role
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
