package model

import (
	"strings"
	"time"

	"niseko/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldRole      = "role"
	FieldFullName  = "full_name"
	FieldLastLogin = "last_login"
	FieldActive    = "active"
	FieldCreatedAt = "created_at"
)

// User is a staff account. Guests never get a row here; they authenticate with the
// token issued at check-in.
type User struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Role      string     `db:"role"`
	FullName  string     `db:"full_name"`
	LastLogin *time.Time `db:"last_login"`
	Active    bool       `db:"active"`
	model.Metadata
}

// NormalizeEmail is applied on write and lookup so addresses differing only in
// case map to one account, matching the unique lower(email) index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
