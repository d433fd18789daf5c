package service

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// ReactionSummary is the state of a post's reactions after a toggle.
type ReactionSummary struct {
	PostID        int64                 `json:"post_id"`
	Counts        domain.ReactionCounts `json:"counts"`
	CurrentActive *domain.ReactionType  `json:"current_active"` // Nil when the caller has no reaction left
}

type ForumService interface {
	AddPost(ctx context.Context, userID int64, content string) (*domain.Post, error)
	AddComment(ctx context.Context, userID, postID int64, content string) (*domain.Comment, error)
	DeletePost(ctx context.Context, userID, postID int64) error
	DeleteComment(ctx context.Context, userID, commentID int64) error
	ApplyReaction(ctx context.Context, userID, postID int64, reaction string) (*ReactionSummary, error)
	ForumView(ctx context.Context, viewer *domain.Session) ([]domain.ForumPost, error)
}

type forumService struct {
	store repository.Store
}

func NewForumService(store repository.Store) ForumService {
	return &forumService{store: store}
}

func (s *forumService) AddPost(ctx context.Context, userID int64, content string) (*domain.Post, error) {
	if userID <= 0 {
		return nil, ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post := &domain.Post{UserID: userID, Content: content}
	if _, err := s.store.Repositories().Posts.Create(ctx, post); err != nil {
		return nil, storageError("create post", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "post_id": post.ID}).Info("Post created")
	return post, nil
}

func (s *forumService) AddComment(ctx context.Context, userID, postID int64, content string) (*domain.Comment, error) {
	if userID <= 0 {
		return nil, ErrLoginRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment := &domain.Comment{PostID: postID, UserID: userID, Content: content}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := postExists(ctx, repos, postID); err != nil {
			return err
		}
		_, err := repos.Comments.Create(ctx, comment)
		return err
	})
	if err != nil {
		return nil, classify("create comment", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "post_id": postID, "comment_id": comment.ID}).Info("Comment created")
	return comment, nil
}

// DeletePost removes the post with all of its comments and reactions in one
// transaction. Missing posts are reported like foreign ones.
func (s *forumService) DeletePost(ctx context.Context, userID, postID int64) error {
	var comments, reactions int64
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		post, err := repos.Posts.GetByID(ctx, postID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotPostOwner
		}
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return ErrNotPostOwner
		}

		if reactions, err = repos.Reactions.DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if comments, err = repos.Comments.DeleteByPost(ctx, postID); err != nil {
			return err
		}
		return repos.Posts.Delete(ctx, postID)
	})
	if err != nil {
		return classify("delete post", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"post_id":   postID,
		"comments":  comments,
		"reactions": reactions,
	}).Info("Post deleted")
	return nil
}

func (s *forumService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		comment, err := repos.Comments.GetByID(ctx, commentID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotCommentOwner
		}
		if err != nil {
			return err
		}
		if comment.UserID != userID {
			return ErrNotCommentOwner
		}
		return repos.Comments.Delete(ctx, commentID)
	})
	if err != nil {
		return classify("delete comment", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "comment_id": commentID}).Info("Comment deleted")
	return nil
}

// nextReaction is the toggle: no reaction adds the requested one, the same
// one removes it and a different one replaces it. Nil means no reaction.
func nextReaction(current *domain.ReactionType, requested domain.ReactionType) *domain.ReactionType {
	if current != nil && *current == requested {
		return nil
	}
	return &requested
}

// ApplyReaction toggles the caller's reaction on a post and returns the new totals.
func (s *forumService) ApplyReaction(ctx context.Context, userID, postID int64, reaction string) (*ReactionSummary, error) {
	if userID <= 0 {
		return nil, ErrLoginRequired
	}
	requested, ok := domain.ParseReactionType(reaction)
	if !ok {
		return nil, ErrInvalidReactionType
	}

	var summary *ReactionSummary
	apply := func() error {
		return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			if err := postExists(ctx, repos, postID); err != nil {
				return err
			}

			var current *domain.ReactionType
			existing, err := repos.Reactions.Get(ctx, postID, userID)
			switch {
			case err == nil:
				current = &existing.Type
			case !errors.Is(err, repository.ErrNotFound):
				return err
			}

			next := nextReaction(current, requested)
			switch {
			case current == nil:
				_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: postID, UserID: userID, Type: requested})
			case next == nil:
				err = repos.Reactions.Delete(ctx, postID, userID)
			default:
				err = repos.Reactions.UpdateType(ctx, postID, userID, *next)
			}
			if err != nil {
				return err
			}

			counts, err := repos.Reactions.CountsByPosts(ctx, []int64{postID})
			if err != nil {
				return err
			}
			summary = &ReactionSummary{PostID: postID, Counts: counts[postID], CurrentActive: next}
			return nil
		})
	}

	err := apply()
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent request inserted first; re-read and toggle from its state.
		err = apply()
	}
	if err != nil {
		return nil, classify("apply reaction", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"post_id":  postID,
		"reaction": requested,
		"active":   summary.CurrentActive != nil,
	}).Debug("Reaction applied")
	return summary, nil
}

// ForumView assembles every post with its comments, reaction totals and the
// viewer's own reaction. It issues a fixed number of queries regardless of
// how many posts there are.
func (s *forumService) ForumView(ctx context.Context, viewer *domain.Session) ([]domain.ForumPost, error) {
	repos := s.store.Repositories()

	posts, err := repos.Posts.List(ctx)
	if err != nil {
		return nil, storageError("list posts", err)
	}
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	comments, err := repos.Comments.ListByPosts(ctx, ids)
	if err != nil {
		return nil, storageError("list comments", err)
	}
	counts, err := repos.Reactions.CountsByPosts(ctx, ids)
	if err != nil {
		return nil, storageError("count reactions", err)
	}
	mine := map[int64]domain.ReactionType{}
	if viewer != nil {
		if mine, err = repos.Reactions.TypesByUser(ctx, viewer.UserID, ids); err != nil {
			return nil, storageError("viewer reactions", err)
		}
	}

	byPost := make(map[int64][]domain.Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}

	view := make([]domain.ForumPost, 0, len(posts))
	for _, p := range posts {
		fp := domain.ForumPost{
			Post:      p,
			Comments:  byPost[p.ID],
			Reactions: counts[p.ID],
		}
		if fp.Comments == nil {
			fp.Comments = []domain.Comment{}
		}
		if fp.Reactions == nil {
			fp.Reactions = domain.NewReactionCounts()
		}
		if t, ok := mine[p.ID]; ok {
			fp.UserReaction = &t
		}
		view = append(view, fp)
	}
	return view, nil
}

func postExists(ctx context.Context, repos repository.Repositories, postID int64) error {
	_, err := repos.Posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
