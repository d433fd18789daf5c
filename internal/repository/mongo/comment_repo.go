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

const commentCollectionName = "comments"

type commentDoc struct {
	ID        int64     `bson:"_id"`
	PostID    int64     `bson:"postId"`
	UserID    int64     `bson:"userId"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"createdAt"`
}

type mongoCommentRepository struct {
	collection *mongo.Collection
	posts      *mongo.Collection
	users      *mongo.Collection
	counters   *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database, counters *mongo.Collection) repository.CommentRepository {
	return &mongoCommentRepository{
		collection: db.Collection(commentCollectionName),
		posts:      db.Collection(postCollectionName),
		users:      db.Collection(userCollectionName),
		counters:   counters,
	}
}

func (r *mongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	if err := r.posts.FindOne(ctx, bson.M{"_id": comment.PostID}).Err(); err != nil {
		return 0, translateError(err)
	}

	id, err := nextID(ctx, r.counters, commentCollectionName)
	if err != nil {
		return 0, err
	}
	doc := commentDoc{
		ID:        id,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return 0, translateError(err)
	}
	comment.ID = doc.ID
	comment.CreatedAt = doc.CreatedAt
	return doc.ID, nil
}

func (r *mongoCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var doc commentDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return &domain.Comment{
		ID:        doc.ID,
		PostID:    doc.PostID,
		UserID:    doc.UserID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *mongoCommentRepository) ListByPosts(ctx context.Context, postIDs []int64) ([]domain.Comment, error) {
	if len(postIDs) == 0 {
		return []domain.Comment{}, nil
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"postId": bson.M{"$in": postIDs}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []commentDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	userIDs := make([]int64, 0, len(docs))
	for _, d := range docs {
		userIDs = append(userIDs, d.UserID)
	}
	names, err := usernames(ctx, r.users, userIDs)
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(docs))
	for _, d := range docs {
		comments = append(comments, domain.Comment{
			ID:        d.ID,
			PostID:    d.PostID,
			UserID:    d.UserID,
			Username:  names[d.UserID],
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		})
	}
	return comments, nil
}

func (r *mongoCommentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"postId": postID})
}

func (r *mongoCommentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCommentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureCommentIndexes creates necessary indexes for the comments collection.
func EnsureCommentIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "postId", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}
