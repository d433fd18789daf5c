package service

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reactionPtr(t domain.ReactionType) *domain.ReactionType { return &t }

func TestNextReaction(t *testing.T) {
	cases := []struct {
		name      string
		current   *domain.ReactionType
		requested domain.ReactionType
		want      *domain.ReactionType
	}{
		{"none adds", nil, domain.ReactionLike, reactionPtr(domain.ReactionLike)},
		{"same removes", reactionPtr(domain.ReactionLike), domain.ReactionLike, nil},
		{"different replaces", reactionPtr(domain.ReactionLike), domain.ReactionFire, reactionPtr(domain.ReactionFire)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextReaction(tc.current, tc.requested))
		})
	}
}

func TestApplyReactionToggleSequence(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	forum := NewForumService(store)

	post, err := forum.AddPost(ctx, alice.ID, "leg day")
	require.NoError(t, err)

	steps := []struct {
		user   int64
		react  string
		active *domain.ReactionType
		counts domain.ReactionCounts
	}{
		{alice.ID, "like", reactionPtr(domain.ReactionLike), domain.ReactionCounts{"like": 1, "heart": 0, "muscle": 0, "fire": 0}},
		{bob.ID, "like", reactionPtr(domain.ReactionLike), domain.ReactionCounts{"like": 2, "heart": 0, "muscle": 0, "fire": 0}},
		{alice.ID, "like", nil, domain.ReactionCounts{"like": 1, "heart": 0, "muscle": 0, "fire": 0}},
		{alice.ID, "heart", reactionPtr(domain.ReactionHeart), domain.ReactionCounts{"like": 1, "heart": 1, "muscle": 0, "fire": 0}},
		{alice.ID, "muscle", reactionPtr(domain.ReactionMuscle), domain.ReactionCounts{"like": 1, "heart": 0, "muscle": 1, "fire": 0}},
		{bob.ID, "fire", reactionPtr(domain.ReactionFire), domain.ReactionCounts{"like": 0, "heart": 0, "muscle": 1, "fire": 1}},
	}
	for i, step := range steps {
		summary, err := forum.ApplyReaction(ctx, step.user, post.ID, step.react)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, post.ID, summary.PostID)
		assert.Equal(t, step.active, summary.CurrentActive, "step %d", i)
		assert.Equal(t, step.counts, summary.Counts, "step %d", i)
	}
}

func TestApplyReactionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	forum := NewForumService(store)

	post, err := forum.AddPost(ctx, alice.ID, "hello")
	require.NoError(t, err)
	_, err = forum.ApplyReaction(ctx, alice.ID, post.ID, "fire")
	require.NoError(t, err)

	_, err = forum.ApplyReaction(ctx, alice.ID, post.ID, "thumbsdown")
	assert.ErrorIs(t, err, ErrInvalidReactionType)
	assert.ErrorIs(t, err, ErrValidation)

	counts, err := store.Repositories().Reactions.CountsByPosts(ctx, []int64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[post.ID][domain.ReactionFire], "invalid type leaves state unchanged")

	_, err = forum.ApplyReaction(ctx, alice.ID, post.ID+100, "like")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = forum.ApplyReaction(ctx, 0, post.ID, "like")
	assert.ErrorIs(t, err, ErrAuthentication)
}

// duplicateOnceStore makes the first reaction insert fail as if a concurrent
// request had won the unique index.
type duplicateOnceStore struct {
	repository.Store
	creates int
}

func (s *duplicateOnceStore) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		repos.Reactions = &duplicateOnceReactions{ReactionRepository: repos.Reactions, store: s}
		return fn(ctx, repos)
	})
}

type duplicateOnceReactions struct {
	repository.ReactionRepository
	store *duplicateOnceStore
}

func (r *duplicateOnceReactions) Create(ctx context.Context, reaction *domain.Reaction) (int64, error) {
	r.store.creates++
	if r.store.creates == 1 {
		return 0, repository.ErrDuplicate
	}
	return r.ReactionRepository.Create(ctx, reaction)
}

func TestApplyReactionRetriesDuplicateOnce(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)
	alice := mustUser(t, base, "alice")
	store := &duplicateOnceStore{Store: base}
	forum := NewForumService(store)

	post, err := forum.AddPost(ctx, alice.ID, "hello")
	require.NoError(t, err)

	summary, err := forum.ApplyReaction(ctx, alice.ID, post.ID, "heart")
	require.NoError(t, err)
	assert.Equal(t, 2, store.creates)
	assert.Equal(t, reactionPtr(domain.ReactionHeart), summary.CurrentActive)
	assert.Equal(t, int64(1), summary.Counts[domain.ReactionHeart])
}

func TestAddPostAndComment(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	forum := NewForumService(store)

	_, err := forum.AddPost(ctx, alice.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	_, err = forum.AddPost(ctx, 0, "hi")
	assert.ErrorIs(t, err, ErrAuthentication)

	post, err := forum.AddPost(ctx, alice.ID, "  trimmed  ")
	require.NoError(t, err)
	assert.Equal(t, "trimmed", post.Content)

	_, err = forum.AddComment(ctx, alice.ID, post.ID, "")
	assert.ErrorIs(t, err, ErrEmptyContent)
	_, err = forum.AddComment(ctx, alice.ID, post.ID+100, "lost")
	assert.ErrorIs(t, err, ErrPostNotFound)

	comment, err := forum.AddComment(ctx, alice.ID, post.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
}

func TestDeletePostCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	forum := NewForumService(store)

	post, err := forum.AddPost(ctx, alice.ID, "to be removed")
	require.NoError(t, err)
	other, err := forum.AddPost(ctx, bob.ID, "stays")
	require.NoError(t, err)
	for _, uid := range []int64{alice.ID, bob.ID} {
		_, err = forum.AddComment(ctx, uid, post.ID, "c")
		require.NoError(t, err)
		_, err = forum.ApplyReaction(ctx, uid, post.ID, "fire")
		require.NoError(t, err)
	}
	_, err = forum.AddComment(ctx, alice.ID, other.ID, "kept")
	require.NoError(t, err)

	err = forum.DeletePost(ctx, bob.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotPostOwner)
	assert.ErrorIs(t, err, ErrPermission)
	_, err = store.Repositories().Posts.GetByID(ctx, post.ID)
	require.NoError(t, err, "foreign delete must leave the post")

	assert.ErrorIs(t, forum.DeletePost(ctx, alice.ID, 9999), ErrPermission)

	require.NoError(t, forum.DeletePost(ctx, alice.ID, post.ID))

	repos := store.Repositories()
	_, err = repos.Posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	n, err := repos.Comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	counts, err := repos.Reactions.CountsByPosts(ctx, []int64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.NewReactionCounts(), counts[post.ID])

	n, err = repos.Comments.CountByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteCommentOwnership(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	forum := NewForumService(store)

	post, err := forum.AddPost(ctx, alice.ID, "p")
	require.NoError(t, err)
	comment, err := forum.AddComment(ctx, bob.ID, post.ID, "bob's")
	require.NoError(t, err)

	assert.ErrorIs(t, forum.DeleteComment(ctx, alice.ID, comment.ID), ErrNotCommentOwner, "post owner cannot delete others' comments")
	_, err = store.Repositories().Comments.GetByID(ctx, comment.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, forum.DeleteComment(ctx, bob.ID, 9999), ErrPermission)
	require.NoError(t, forum.DeleteComment(ctx, bob.ID, comment.ID))
	_, err = store.Repositories().Comments.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestForumView(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	forum := NewForumService(store)

	empty, err := forum.ForumView(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	older, err := forum.AddPost(ctx, alice.ID, "older")
	require.NoError(t, err)
	newer, err := forum.AddPost(ctx, bob.ID, "newer")
	require.NoError(t, err)
	c1, err := forum.AddComment(ctx, bob.ID, older.ID, "one")
	require.NoError(t, err)
	c2, err := forum.AddComment(ctx, alice.ID, older.ID, "two")
	require.NoError(t, err)
	_, err = forum.ApplyReaction(ctx, bob.ID, older.ID, "muscle")
	require.NoError(t, err)
	_, err = forum.ApplyReaction(ctx, alice.ID, older.ID, "like")
	require.NoError(t, err)

	view, err := forum.ForumView(ctx, &domain.Session{UserID: bob.ID, Username: "bob"})
	require.NoError(t, err)
	require.Len(t, view, 2)

	assert.Equal(t, newer.ID, view[0].ID)
	assert.Equal(t, "bob", view[0].Username)
	assert.Empty(t, view[0].Comments)
	assert.NotNil(t, view[0].Comments)
	assert.Equal(t, domain.NewReactionCounts(), view[0].Reactions)
	assert.Nil(t, view[0].UserReaction)

	assert.Equal(t, older.ID, view[1].ID)
	assert.Equal(t, "alice", view[1].Username)
	require.Len(t, view[1].Comments, 2)
	assert.Equal(t, c1.ID, view[1].Comments[0].ID)
	assert.Equal(t, "bob", view[1].Comments[0].Username)
	assert.Equal(t, c2.ID, view[1].Comments[1].ID)
	assert.Equal(t, domain.ReactionCounts{"like": 1, "heart": 0, "muscle": 1, "fire": 0}, view[1].Reactions)
	assert.Equal(t, reactionPtr(domain.ReactionMuscle), view[1].UserReaction)

	anonymous, err := forum.ForumView(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, anonymous[1].UserReaction)
}
