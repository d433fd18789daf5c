package sqlstore

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type commentRepository struct {
	db *gorm.DB
}

type commentView struct {
	ID        int64
	PostID    int64
	UserID    int64
	Username  string
	Content   string
	CreatedAt time.Time
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	row := commentRow{PostID: comment.PostID, UserID: comment.UserID, Content: comment.Content}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return 0, translateError(err)
	}
	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	return row.ID, nil
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var row commentRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &domain.Comment{
		ID:        row.ID,
		PostID:    row.PostID,
		UserID:    row.UserID,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}, nil
}

// ListByPosts returns the comments of all given posts in one query, oldest first.
func (r *commentRepository) ListByPosts(ctx context.Context, postIDs []int64) ([]domain.Comment, error) {
	if len(postIDs) == 0 {
		return []domain.Comment{}, nil
	}

	var views []commentView
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.user_id, users.username, comments.content, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id IN ?", postIDs).
		Order("comments.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, translateError(err)
	}

	comments := make([]domain.Comment, 0, len(views))
	for _, v := range views {
		comments = append(comments, domain.Comment{
			ID:        v.ID,
			PostID:    v.PostID,
			UserID:    v.UserID,
			Username:  v.Username,
			Content:   v.Content,
			CreatedAt: v.CreatedAt,
		})
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&commentRow{}).Where("post_id = ?", postID).Count(&n).Error
	return n, translateError(err)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&commentRow{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&commentRow{})
	return res.RowsAffected, translateError(res.Error)
}
