// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"strings"
	"time"
)

// Role determines what a user can do and which dashboard they see.
//
// WHY A NAMED STRING TYPE (not plain string)?
// A named type lets the compiler distinguish "a role" from "any string".
// You can't accidentally pass an event title where a Role is expected.
// The underlying representation is still a string, so it stores and
// serializes exactly like one.
type Role string

const (
	RoleStudent   Role = "Student"
	RoleClub      Role = "Club"
	RoleAuthority Role = "Authority"
)

// Valid reports whether r is one of the three known roles.
// Used at signup — the role comes from a form field and must be checked.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleClub, RoleAuthority:
		return true
	}
	return false
}

// PathSegment returns the role as it appears in dashboard URLs —
// lowercase, so RoleStudent maps to /dashboard/student.
func (r Role) PathSegment() string {
	return strings.ToLower(string(r))
}

// ParseRole maps a submitted form value to its canonical Role. The form
// posts lowercase values while the stored roles are capitalized, so the
// match is case-insensitive. The boolean reports whether the value named
// a known role; on false the raw value is returned so error messages can
// quote what was actually submitted.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, true
	case "club":
		return RoleClub, true
	case "authority":
		return RoleAuthority, true
	}
	return Role(s), false
}

// User represents a registered account.
//
// The name is the unique business key — two users can never share a name.
// The UNIQUE constraint on users.name in the DB enforces this; the service
// layer additionally checks first so it can return a friendly error.
//
// WHY PasswordHash AND NOT Password?
// We never store the plaintext secret. Registration bcrypt-hashes the
// submitted password and only the hash is persisted. The field name makes
// it impossible to confuse the two. It carries `json:"-"` so the hash can
// never leak into a rendered view or API response by accident.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         Role      `json:"role"      db:"role"`
	Email        string    `json:"email"     db:"email"` // optional, may be empty
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
