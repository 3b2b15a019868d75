// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Password holds the stored credential,
// either the PBKDF2 encoding or a legacy plaintext value, and is never
// serialized.
type User struct {
	ID        string    `json:"uid"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}
