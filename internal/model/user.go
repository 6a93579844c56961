// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash is the bcrypt digest of the user's password. It is tagged
// `json:"-"` so it can never appear in an API response, no matter which
// handler serializes the struct. The plaintext password only ever exists
// inside a request body and is discarded right after hashing.
//
// Birthday is a *time.Time because it is optional — nil means the user never
// provided one. Favorites holds the user's favorite movie IDs in the order
// they were added; membership is unique (the store enforces it).
type User struct {
	ID           string     `json:"id"        db:"id"`
	Username     string     `json:"username"  db:"username"`
	PasswordHash string     `json:"-"         db:"password_hash"`
	Email        string     `json:"email"     db:"email"`
	Birthday     *time.Time `json:"birthday,omitempty" db:"birthday"`
	Favorites    []string   `json:"favorites"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
