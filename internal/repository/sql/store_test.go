package sqlstore

import (
	"alcyxob/fitness-community/internal/config"
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "fitness.db") + "?_foreign_keys=on&_busy_timeout=5000"
	store, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func createUser(t *testing.T, repos repository.Repositories, name string) *domain.User {
	t.Helper()
	user := &domain.User{Username: name, PasswordHash: "hash-" + name}
	_, err := repos.Users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Ping(context.Background()))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore(t).Repositories()

	alice := createUser(t, repos, "alice")
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	_, err := repos.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repos.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash-alice", got.PasswordHash)

	got, err = repos.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repos.Users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore(t).Repositories()
	alice := createUser(t, repos, "alice")
	bob := createUser(t, repos, "bob")

	age := 31
	first := &domain.WorkoutPlan{UserID: alice.ID, Name: "A", Age: &age, Level: "beginner", Plan: json.RawMessage(`{"days":[1,2]}`)}
	second := &domain.WorkoutPlan{UserID: alice.ID, Name: "B", Level: "expert", Plan: json.RawMessage(`null`)}
	_, err := repos.Plans.Create(ctx, first)
	require.NoError(t, err)
	_, err = repos.Plans.Create(ctx, second)
	require.NoError(t, err)

	plans, err := repos.Plans.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second.ID, plans[0].ID, "newest first")
	assert.Nil(t, plans[0].Age)
	require.NotNil(t, plans[1].Age)
	assert.Equal(t, 31, *plans[1].Age)
	assert.JSONEq(t, `{"days":[1,2]}`, string(plans[1].Plan))

	assert.ErrorIs(t, repos.Plans.Delete(ctx, first.ID, bob.ID), repository.ErrNotFound)
	_, err = repos.Plans.GetByID(ctx, first.ID)
	require.NoError(t, err, "foreign delete must leave the row")

	require.NoError(t, repos.Plans.Delete(ctx, first.ID, alice.ID))
	_, err = repos.Plans.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostsAndComments(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore(t).Repositories()
	alice := createUser(t, repos, "alice")
	bob := createUser(t, repos, "bob")

	p1 := &domain.Post{UserID: alice.ID, Content: "first"}
	p2 := &domain.Post{UserID: bob.ID, Content: "second"}
	_, err := repos.Posts.Create(ctx, p1)
	require.NoError(t, err)
	_, err = repos.Posts.Create(ctx, p2)
	require.NoError(t, err)

	posts, err := repos.Posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)
	assert.Equal(t, "bob", posts[0].Username)
	assert.Equal(t, "alice", posts[1].Username)

	got, err := repos.Posts.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Content)
	assert.Equal(t, "alice", got.Username)

	c1 := &domain.Comment{PostID: p1.ID, UserID: bob.ID, Content: "nice"}
	c2 := &domain.Comment{PostID: p1.ID, UserID: alice.ID, Content: "thanks"}
	c3 := &domain.Comment{PostID: p2.ID, UserID: alice.ID, Content: "hi"}
	for _, c := range []*domain.Comment{c1, c2, c3} {
		_, err := repos.Comments.Create(ctx, c)
		require.NoError(t, err)
	}

	comments, err := repos.Comments.ListByPosts(ctx, []int64{p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []int64{c1.ID, c2.ID, c3.ID}, []int64{comments[0].ID, comments[1].ID, comments[2].ID})
	assert.Equal(t, "bob", comments[0].Username)

	empty, err := repos.Comments.ListByPosts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := repos.Comments.DeleteByPost(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	count, err := repos.Comments.CountByPost(ctx, p1.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repos.Comments.Delete(ctx, c3.ID))
	assert.ErrorIs(t, repos.Comments.Delete(ctx, c3.ID), repository.ErrNotFound)

	require.NoError(t, repos.Posts.Delete(ctx, p1.ID))
	_, err = repos.Posts.GetByID(ctx, p1.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestForeignKeysAreEnforced(t *testing.T) {
	repos := newTestStore(t).Repositories()
	_, err := repos.Posts.Create(context.Background(), &domain.Post{UserID: 999, Content: "orphan"})
	assert.Error(t, err)
}

func TestReactionRepository(t *testing.T) {
	ctx := context.Background()
	repos := newTestStore(t).Repositories()
	alice := createUser(t, repos, "alice")
	bob := createUser(t, repos, "bob")
	post := &domain.Post{UserID: alice.ID, Content: "p"}
	_, err := repos.Posts.Create(ctx, post)
	require.NoError(t, err)

	_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: post.ID, UserID: alice.ID, Type: domain.ReactionLike})
	require.NoError(t, err)
	_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: post.ID, UserID: alice.ID, Type: domain.ReactionFire})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	_, err = repos.Reactions.Create(ctx, &domain.Reaction{PostID: post.ID, UserID: bob.ID, Type: domain.ReactionLike})
	require.NoError(t, err)

	require.NoError(t, repos.Reactions.UpdateType(ctx, post.ID, bob.ID, domain.ReactionMuscle))
	got, err := repos.Reactions.Get(ctx, post.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionMuscle, got.Type)

	counts, err := repos.Reactions.CountsByPosts(ctx, []int64{post.ID, 12345})
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionCounts{"like": 1, "heart": 0, "muscle": 1, "fire": 0}, counts[post.ID])
	assert.Equal(t, domain.NewReactionCounts(), counts[12345])

	types, err := repos.Reactions.TypesByUser(ctx, bob.ID, []int64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]domain.ReactionType{post.ID: domain.ReactionMuscle}, types)

	require.NoError(t, repos.Reactions.Delete(ctx, post.ID, bob.ID))
	_, err = repos.Reactions.Get(ctx, post.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repos.Reactions.Delete(ctx, post.ID, bob.ID), repository.ErrNotFound)

	n, err := repos.Reactions.DeleteByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Users.Create(ctx, &domain.User{Username: "ghost", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repositories().Users.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Users.Create(ctx, &domain.User{Username: "kept", PasswordHash: "x"})
		return err
	})
	require.NoError(t, err)
	_, err = store.Repositories().Users.GetByUsername(ctx, "kept")
	assert.NoError(t, err)
}
