package domain

import "time"

// Session identifies the authenticated caller of a request.
type Session struct {
	UserID    int64
	Username  string
	TokenID   string // Unique id of the signed token backing this session
	ExpiresAt time.Time
}
