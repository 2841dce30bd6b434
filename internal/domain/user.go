package domain

import "time"

// User represents a registered identity. Usernames are unique,
// case-sensitive and immutable once created.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
