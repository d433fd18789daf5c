package repository

import (
	"alcyxob/fitness-community/internal/domain" // Import our defined domain models
	"context"                                    // Standard for request-scoped deadlines, cancellation signals, etc.
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key") // A unique constraint rejected the write
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with saved workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) // Newest first
	Delete(ctx context.Context, id, userID int64) error                        // ErrNotFound when nothing owned by userID matched
}

// PostRepository defines the interface for interacting with forum posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error) // Newest first, author names filled
	Delete(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for interacting with post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPosts(ctx context.Context, postIDs []int64) ([]domain.Comment, error) // Oldest first, author names filled
	CountByPost(ctx context.Context, postID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
}

// ReactionRepository defines the interface for interacting with post reactions.
type ReactionRepository interface {
	Get(ctx context.Context, postID, userID int64) (*domain.Reaction, error)
	Create(ctx context.Context, reaction *domain.Reaction) (int64, error) // ErrDuplicate if (post, user) already reacted
	UpdateType(ctx context.Context, postID, userID int64, reactionType domain.ReactionType) error
	Delete(ctx context.Context, postID, userID int64) error
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	CountsByPosts(ctx context.Context, postIDs []int64) (map[int64]domain.ReactionCounts, error)
	TypesByUser(ctx context.Context, userID int64, postIDs []int64) (map[int64]domain.ReactionType, error)
}

// Repositories bundles the per-entity repositories bound to one handle
// (the shared pool, or a single transaction).
type Repositories struct {
	Users     UserRepository
	Plans     PlanRepository
	Posts     PostRepository
	Comments  CommentRepository
	Reactions ReactionRepository
}

// TxFunc is the body of a transaction. It must only use the repositories it
// receives and the context it is given.
type TxFunc func(ctx context.Context, repos Repositories) error

// Store is a persistence backend.
type Store interface {
	// Repositories returns repositories working outside any transaction.
	Repositories() Repositories
	// WithinTx runs fn as one all-or-nothing unit. A non-nil error from fn rolls back.
	WithinTx(ctx context.Context, fn TxFunc) error
	// Migrate creates missing tables/collections and indexes. Safe to call on every start.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
