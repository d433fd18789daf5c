package domain

// ReactionType is one of the fixed emotion tags a user can put on a post.
type ReactionType string

const (
	ReactionLike   ReactionType = "like"
	ReactionHeart  ReactionType = "heart"
	ReactionMuscle ReactionType = "muscle"
	ReactionFire   ReactionType = "fire"
)

// ReactionTypes lists every allowed reaction in display order.
var ReactionTypes = []ReactionType{ReactionLike, ReactionHeart, ReactionMuscle, ReactionFire}

// Valid reports whether t is one of the allowed reactions.
func (t ReactionType) Valid() bool {
	for _, allowed := range ReactionTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// ParseReactionType converts raw input to a ReactionType.
func ParseReactionType(s string) (ReactionType, bool) {
	t := ReactionType(s)
	return t, t.Valid()
}

// Reaction is a single user's reaction to a post. There is at most one per (post, user).
type Reaction struct {
	ID     int64        `json:"id"`
	PostID int64        `json:"postId"`
	UserID int64        `json:"userId"`
	Type   ReactionType `json:"reactionType"`
}

// ReactionCounts maps each reaction type to the number of users who chose it.
type ReactionCounts map[ReactionType]int64

// NewReactionCounts returns counts with every allowed type present and zero.
func NewReactionCounts() ReactionCounts {
	counts := make(ReactionCounts, len(ReactionTypes))
	for _, t := range ReactionTypes {
		counts[t] = 0
	}
	return counts
}
