package domain

import "time"

// Post is a forum entry written by a user.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"` // Author name, filled on reads
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ForumPost is a post assembled for display together with its comments,
// the reaction totals and the viewer's own reaction.
type ForumPost struct {
	Post
	Comments     []Comment      `json:"comments"`
	Reactions    ReactionCounts `json:"reactions"`
	UserReaction *ReactionType  `json:"userReaction"` // Nil for anonymous viewers or no reaction
}
