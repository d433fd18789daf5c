package service

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/repository"
	"alcyxob/fitness-community/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// PlanInput is what the survey page submits when saving a plan.
type PlanInput struct {
	Name  string          `json:"name"`
	Age   *int            `json:"age"`
	Level string          `json:"level"`
	Plan  json.RawMessage `json:"plan"`
}

type PlanService interface {
	SavePlan(ctx context.Context, userID int64, in PlanInput) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, userID, planID int64) error
	ExportPlan(ctx context.Context, userID, planID int64) (url string, err error)
}

type planService struct {
	plans         repository.PlanRepository
	files         storage.FileStorage // Nil when exports are disabled
	presignExpiry time.Duration
}

// NewPlanService creates a plan service. files may be nil.
func NewPlanService(plans repository.PlanRepository, files storage.FileStorage, presignExpiry time.Duration) PlanService {
	return &planService{
		plans:         plans,
		files:         files,
		presignExpiry: presignExpiry,
	}
}

func exportKey(userID, planID int64) string {
	return fmt.Sprintf("plans/%d/%d.json", userID, planID)
}

// SavePlan stores the plan document as submitted. Its shape is not checked.
func (s *planService) SavePlan(ctx context.Context, userID int64, in PlanInput) (*domain.WorkoutPlan, error) {
	if userID <= 0 {
		return nil, ErrLoginRequired
	}

	payload := bytes.TrimSpace(in.Plan)
	if len(payload) == 0 {
		payload = []byte("null")
	}
	if !json.Valid(payload) {
		return nil, ErrInvalidPlan
	}

	plan := &domain.WorkoutPlan{
		UserID: userID,
		Name:   in.Name,
		Age:    in.Age,
		Level:  in.Level,
		Plan:   json.RawMessage(payload),
	}
	if _, err := s.plans.Create(ctx, plan); err != nil {
		return nil, storageError("save plan", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "plan_id": plan.ID}).Info("Plan saved")
	return plan, nil
}

// ListPlans returns the user's plans, newest first.
func (s *planService) ListPlans(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	if userID <= 0 {
		return nil, ErrLoginRequired
	}
	plans, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list plans", err)
	}
	return plans, nil
}

// DeletePlan removes one of the user's plans. Plans that are missing or
// belong to someone else are left alone and no error is reported.
func (s *planService) DeletePlan(ctx context.Context, userID, planID int64) error {
	if userID <= 0 {
		return ErrLoginRequired
	}

	err := s.plans.Delete(ctx, planID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storageError("delete plan", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "plan_id": planID}).Info("Plan deleted")

	if s.files != nil {
		if err := s.files.DeleteObject(ctx, exportKey(userID, planID)); err != nil {
			logrus.WithError(err).WithField("plan_id", planID).Warn("Failed to delete plan export")
		}
	}
	return nil
}

// ExportPlan uploads the plan to object storage and returns a temporary download link.
func (s *planService) ExportPlan(ctx context.Context, userID, planID int64) (string, error) {
	if userID <= 0 {
		return "", ErrLoginRequired
	}
	if s.files == nil {
		return "", ErrExportUnavailable
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && plan.UserID != userID) {
		return "", ErrPlanNotFound
	}
	if err != nil {
		return "", storageError("get plan", err)
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}

	key := exportKey(userID, planID)
	if err = s.files.PutObject(ctx, key, "application/json", body); err != nil {
		return "", storageError("upload plan export", err)
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return "", storageError("presign plan export", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "plan_id": planID, "key": key}).Info("Plan exported")
	return url, nil
}
