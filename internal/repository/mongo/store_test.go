package mongo

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the server named by FITNESS_TEST_MONGO_URI and
// uses a throwaway database. The server must be a replica set for WithinTx.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("FITNESS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FITNESS_TEST_MONGO_URI not set")
	}

	client, err := ConnectDB(uri)
	require.NoError(t, err)

	store := NewStore(client, fmt.Sprintf("fitness_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx := context.Background()
		_ = store.db.Drop(ctx)
		_ = DisconnectDB(client)
	})
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMongoStoreForumFlow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Migrate(ctx), "migrate twice")
	repos := store.Repositories()

	alice := &domain.User{Username: "alice", PasswordHash: "h"}
	_, err := repos.Users.Create(ctx, alice)
	require.NoError(t, err)
	_, err = repos.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	post := &domain.Post{UserID: alice.ID, Content: "hello"}
	_, err = repos.Posts.Create(ctx, post)
	require.NoError(t, err)

	_, err = repos.Comments.Create(ctx, &domain.Comment{PostID: post.ID, UserID: alice.ID, Content: "c"})
	require.NoError(t, err)
	_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: post.ID, UserID: alice.ID, Type: domain.ReactionFire})
	require.NoError(t, err)
	_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: post.ID, UserID: alice.ID, Type: domain.ReactionLike})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	posts, err := repos.Posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Username)

	counts, err := repos.Reactions.CountsByPosts(ctx, []int64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[post.ID][domain.ReactionFire])

	err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Reactions.DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		if _, err := repos.Comments.DeleteByPost(ctx, post.ID); err != nil {
			return err
		}
		return repos.Posts.Delete(ctx, post.ID)
	})
	require.NoError(t, err)

	n, err := repos.Comments.CountByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = repos.Posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
