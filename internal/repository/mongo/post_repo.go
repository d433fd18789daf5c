package mongo

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postCollectionName = "posts"

type postDoc struct {
	ID        int64     `bson:"_id"`
	UserID    int64     `bson:"userId"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoPostRepository struct {
	collection *mongo.Collection
	users      *mongo.Collection
	counters   *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database, counters *mongo.Collection) repository.PostRepository {
	return &mongoPostRepository{
		collection: db.Collection(postCollectionName),
		users:      db.Collection(userCollectionName),
		counters:   counters,
	}
}

func (r *mongoPostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	// No foreign keys here, so check the author exists.
	if err := r.users.FindOne(ctx, bson.M{"_id": post.UserID}).Err(); err != nil {
		return 0, translateError(err)
	}

	id, err := nextID(ctx, r.counters, postCollectionName)
	if err != nil {
		return 0, err
	}
	doc := postDoc{ID: id, UserID: post.UserID, Content: post.Content, CreatedAt: time.Now().UTC()}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return 0, translateError(err)
	}
	post.ID = doc.ID
	post.CreatedAt = doc.CreatedAt
	return doc.ID, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var doc postDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	posts, err := r.withAuthors(ctx, []postDoc{doc})
	if err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *mongoPostRepository) List(ctx context.Context) ([]domain.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withAuthors(ctx, docs)
}

func (r *mongoPostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPostRepository) withAuthors(ctx context.Context, docs []postDoc) ([]domain.Post, error) {
	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.UserID)
	}
	names, err := usernames(ctx, r.users, ids)
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, domain.Post{
			ID:        d.ID,
			UserID:    d.UserID,
			Username:  names[d.UserID],
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		})
	}
	return posts, nil
}

// EnsurePostIndexes creates necessary indexes for the posts collection.
func EnsurePostIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	return err
}
