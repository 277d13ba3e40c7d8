package model

import "time"

// User mirrors the users table.  Only the bcrypt hash of the password is
// stored, never the plaintext.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
