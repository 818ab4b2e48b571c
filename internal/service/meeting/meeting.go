package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type MeetingService struct {
	meetingRepo repository.MeetingRepo
}

func NewService(meetingRepo repository.MeetingRepo) *MeetingService {
	return &MeetingService{
		meetingRepo: meetingRepo,
	}
}

func (s *MeetingService) Create(ctx context.Context, meeting models.Meeting) (models.Meeting, error) {
	return s.meetingRepo.Create(ctx, meeting)
}

func (s *MeetingService) Get(ctx context.Context, id uuid.UUID) (models.Meeting, error) {
	return s.meetingRepo.Get(ctx, id)
}

func (s *MeetingService) List(ctx context.Context) ([]models.Meeting, error) {
	return s.meetingRepo.List(ctx)
}

func (s *MeetingService) Update(ctx context.Context, meeting models.Meeting) (models.Meeting, error) {
	return s.meetingRepo.Update(ctx, meeting)
}

func (s *MeetingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.meetingRepo.Delete(ctx, id)
}
