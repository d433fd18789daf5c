package domain

import "time"

// User is a registered member of the community.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"` // Unique, never changes after registration
	PasswordHash string    `json:"-"`        // Never expose this via JSON
	CreatedAt    time.Time `json:"createdAt"`
}
