package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type ActivityService struct {
	activityRepo repository.ActivityRepo
}

func NewService(activityRepo repository.ActivityRepo) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
	}
}

func (s *ActivityService) Create(ctx context.Context, activity models.Activity) (models.Activity, error) {
	return s.activityRepo.Create(ctx, activity)
}

func (s *ActivityService) Get(ctx context.Context, id uuid.UUID) (models.Activity, error) {
	return s.activityRepo.Get(ctx, id)
}

func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	return s.activityRepo.List(ctx)
}

func (s *ActivityService) Update(ctx context.Context, activity models.Activity) (models.Activity, error) {
	return s.activityRepo.Update(ctx, activity)
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.activityRepo.Delete(ctx, id)
}
