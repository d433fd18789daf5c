package sqlstore

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type planRepository struct {
	db *gorm.DB
}

func (r *planRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error) {
	row := workoutRow{
		UserID:   plan.UserID,
		Name:     plan.Name,
		Age:      plan.Age,
		Level:    plan.Level,
		PlanJSON: string(plan.Plan),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return 0, translateError(err)
	}
	plan.ID = row.ID
	plan.CreatedAt = row.CreatedAt
	return row.ID, nil
}

func (r *planRepository) GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	var row workoutRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	return row.toDomain(), nil
}

func (r *planRepository) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	var rows []workoutRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	plans := make([]domain.WorkoutPlan, 0, len(rows))
	for _, row := range rows {
		plans = append(plans, *row.toDomain())
	}
	return plans, nil
}

// Delete removes the plan only when it belongs to userID.
func (r *planRepository) Delete(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&workoutRow{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r workoutRow) toDomain() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Age:       r.Age,
		Level:     r.Level,
		Plan:      json.RawMessage(r.PlanJSON),
		CreatedAt: r.CreatedAt,
	}
}
