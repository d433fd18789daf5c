package mongo

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reactionCollectionName = "reactions"

type reactionDoc struct {
	ID           int64  `bson:"_id"`
	PostID       int64  `bson:"postId"`
	UserID       int64  `bson:"userId"`
	ReactionType string `bson:"reactionType"`
}

type mongoReactionRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewMongoReactionRepository(db *mongo.Database, counters *mongo.Collection) repository.ReactionRepository {
	return &mongoReactionRepository{
		collection: db.Collection(reactionCollectionName),
		counters:   counters,
	}
}

func (r *mongoReactionRepository) Get(ctx context.Context, postID, userID int64) (*domain.Reaction, error) {
	var doc reactionDoc
	if err := r.collection.FindOne(ctx, bson.M{"postId": postID, "userId": userID}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return &domain.Reaction{
		ID:     doc.ID,
		PostID: doc.PostID,
		UserID: doc.UserID,
		Type:   domain.ReactionType(doc.ReactionType),
	}, nil
}

// Create relies on the unique (postId, userId) index to reject a second reaction.
func (r *mongoReactionRepository) Create(ctx context.Context, reaction *domain.Reaction) (int64, error) {
	id, err := nextID(ctx, r.counters, reactionCollectionName)
	if err != nil {
		return 0, err
	}
	doc := reactionDoc{
		ID:           id,
		PostID:       reaction.PostID,
		UserID:       reaction.UserID,
		ReactionType: string(reaction.Type),
	}
	if _, err = r.collection.InsertOne(ctx, doc); err != nil {
		return 0, translateError(err)
	}
	reaction.ID = doc.ID
	return doc.ID, nil
}

func (r *mongoReactionRepository) UpdateType(ctx context.Context, postID, userID int64, reactionType domain.ReactionType) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"postId": postID, "userId": userID},
		bson.M{"$set": bson.M{"reactionType": string(reactionType)}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoReactionRepository) Delete(ctx context.Context, postID, userID int64) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoReactionRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoReactionRepository) CountsByPosts(ctx context.Context, postIDs []int64) (map[int64]domain.ReactionCounts, error) {
	counts := make(map[int64]domain.ReactionCounts, len(postIDs))
	for _, id := range postIDs {
		counts[id] = domain.NewReactionCounts()
	}
	if len(postIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"postId": "$postId", "type": "$reactionType"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Key struct {
			PostID int64  `bson:"postId"`
			Type   string `bson:"type"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for _, g := range groups {
		counts[g.Key.PostID][domain.ReactionType(g.Key.Type)] = g.Count
	}
	return counts, nil
}

func (r *mongoReactionRepository) TypesByUser(ctx context.Context, userID int64, postIDs []int64) (map[int64]domain.ReactionType, error) {
	types := make(map[int64]domain.ReactionType)
	if len(postIDs) == 0 {
		return types, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "postId": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []reactionDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		types[d.PostID] = domain.ReactionType(d.ReactionType)
	}
	return types, nil
}

// EnsureReactionIndexes creates the unique (postId, userId) index.
func EnsureReactionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
