package entity

import "strings"

// User represents a registered account.
// Passwords are stored and compared verbatim: the upstream application keeps
// credentials in clear text and hashing is an explicit non-goal here.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

// Validate validates the User entity fields.
// Email uniqueness is enforced by the store, not here.
func (u *User) Validate() error {
	if u.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !strings.Contains(u.Email, "@") || strings.HasPrefix(u.Email, "@") || strings.HasSuffix(u.Email, "@") {
		return &ValidationError{Field: "email", Message: "email is invalid"}
	}
	if u.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}
