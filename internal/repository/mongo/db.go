package mongo

import (
	"alcyxob/fitness-community/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

const counterCollectionName = "counters"

// namespaceExists is the server error code for creating a collection twice.
const namespaceExists = 48

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// Store is a repository.Store backed by one MongoDB database.
// Transactions need a replica set or sharded cluster.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ repository.Store = (*Store)(nil)

func NewStore(client *mongo.Client, dbName string) *Store {
	return &Store{client: client, db: client.Database(dbName)}
}

func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

// WithinTx runs fn in a multi-document transaction. The context handed to fn
// carries the session, so repositories using it join the transaction.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, newRepositories(s.db))
	})
	return err
}

// Migrate creates the collections up front (they cannot be created inside a
// transaction on older servers) and ensures every index exists.
func (s *Store) Migrate(ctx context.Context) error {
	for _, name := range []string{
		userCollectionName,
		workoutCollectionName,
		postCollectionName,
		commentCollectionName,
		reactionCollectionName,
		counterCollectionName,
	} {
		if err := s.db.CreateCollection(ctx, name); err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
				continue
			}
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	ensure := []func(context.Context, *mongo.Collection) error{
		EnsureUserIndexes,
		EnsureWorkoutIndexes,
		EnsurePostIndexes,
		EnsureCommentIndexes,
		EnsureReactionIndexes,
	}
	collections := []string{userCollectionName, workoutCollectionName, postCollectionName, commentCollectionName, reactionCollectionName}
	for i, fn := range ensure {
		if err := fn(ctx, s.db.Collection(collections[i])); err != nil {
			return fmt.Errorf("indexes for %s: %w", collections[i], err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func newRepositories(db *mongo.Database) repository.Repositories {
	counters := db.Collection(counterCollectionName)
	return repository.Repositories{
		Users:     NewMongoUserRepository(db, counters),
		Plans:     NewMongoWorkoutRepository(db, counters),
		Posts:     NewMongoPostRepository(db, counters),
		Comments:  NewMongoCommentRepository(db, counters),
		Reactions: NewMongoReactionRepository(db, counters),
	}
}

// nextID hands out the next integer id for a collection from the counters collection.
func nextID(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return counter.Seq, nil
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}

// usernames resolves author names for a set of user ids with a single query.
func usernames(ctx context.Context, users *mongo.Collection, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	cursor, err := users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"username": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		names[d.ID] = d.Username
	}
	return names, nil
}
