package sqlstore

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepository struct {
	db *gorm.DB
}

// postView is a post joined with its author's name.
type postView struct {
	ID        int64
	UserID    int64
	Username  string
	Content   string
	CreatedAt time.Time
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	row := postRow{UserID: post.UserID, Content: post.Content}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return 0, translateError(err)
	}
	post.ID = row.ID
	post.CreatedAt = row.CreatedAt
	return row.ID, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var views []postView
	if err := r.withAuthor(ctx).Where("posts.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, translateError(err)
	}
	if len(views) == 0 {
		return nil, repository.ErrNotFound
	}
	post := views[0].toDomain()
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	var views []postView
	if err := r.withAuthor(ctx).Order("posts.id DESC").Scan(&views).Error; err != nil {
		return nil, translateError(err)
	}

	posts := make([]domain.Post, 0, len(views))
	for _, v := range views {
		posts = append(posts, v.toDomain())
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&postRow{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id, posts.user_id, users.username, posts.content, posts.created_at").
		Joins("JOIN users ON users.id = posts.user_id")
}

func (v postView) toDomain() domain.Post {
	return domain.Post{
		ID:        v.ID,
		UserID:    v.UserID,
		Username:  v.Username,
		Content:   v.Content,
		CreatedAt: v.CreatedAt,
	}
}
