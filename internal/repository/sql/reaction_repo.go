package sqlstore

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reactionRepository struct {
	db *gorm.DB
}

func (r *reactionRepository) Get(ctx context.Context, postID, userID int64) (*domain.Reaction, error) {
	var row reactionRow
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &domain.Reaction{
		ID:     row.ID,
		PostID: row.PostID,
		UserID: row.UserID,
		Type:   domain.ReactionType(row.ReactionType),
	}, nil
}

// Create fails with repository.ErrDuplicate when the user already reacted to the post.
func (r *reactionRepository) Create(ctx context.Context, reaction *domain.Reaction) (int64, error) {
	row := reactionRow{
		PostID:       reaction.PostID,
		UserID:       reaction.UserID,
		ReactionType: string(reaction.Type),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return 0, translateError(err)
	}
	reaction.ID = row.ID
	return row.ID, nil
}

func (r *reactionRepository) UpdateType(ctx context.Context, postID, userID int64, reactionType domain.ReactionType) error {
	res := r.db.WithContext(ctx).
		Model(&reactionRow{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Update("reaction_type", string(reactionType))
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reactionRepository) Delete(ctx context.Context, postID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&reactionRow{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *reactionRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&reactionRow{})
	return res.RowsAffected, translateError(res.Error)
}

// CountsByPosts returns zero-filled counts for every requested post.
func (r *reactionRepository) CountsByPosts(ctx context.Context, postIDs []int64) (map[int64]domain.ReactionCounts, error) {
	counts := make(map[int64]domain.ReactionCounts, len(postIDs))
	for _, id := range postIDs {
		counts[id] = domain.NewReactionCounts()
	}
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID       int64
		ReactionType string
		Count        int64
	}
	err := r.db.WithContext(ctx).
		Model(&reactionRow{}).
		Select("post_id, reaction_type, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id, reaction_type").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		counts[row.PostID][domain.ReactionType(row.ReactionType)] = row.Count
	}
	return counts, nil
}

// TypesByUser returns the user's reaction for each of the given posts they reacted to.
func (r *reactionRepository) TypesByUser(ctx context.Context, userID int64, postIDs []int64) (map[int64]domain.ReactionType, error) {
	types := make(map[int64]domain.ReactionType)
	if len(postIDs) == 0 {
		return types, nil
	}

	var rows []reactionRow
	err := r.db.WithContext(ctx).
		Select("post_id", "reaction_type").
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		types[row.PostID] = domain.ReactionType(row.ReactionType)
	}
	return types, nil
}

var _ repository.ReactionRepository = (*reactionRepository)(nil)
