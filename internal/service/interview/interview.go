package interview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type InterviewService struct {
	interviewRepo repository.InterviewRepo
	memberRepo    repository.MemberRepo
}

func NewService(interviewRepo repository.InterviewRepo, memberRepo repository.MemberRepo) *InterviewService {
	return &InterviewService{
		interviewRepo: interviewRepo,
		memberRepo:    memberRepo,
	}
}

// Schedule books an interview between a leader and an existing member
func (s *InterviewService) Schedule(ctx context.Context, memberID uuid.UUID, leaderID uuid.UUID, at time.Time, purpose string) (models.Interview, error) {
	if _, err := s.memberRepo.Get(ctx, memberID); err != nil {
		return models.Interview{}, err
	}

	return s.interviewRepo.Create(ctx, models.Interview{
		MemberID:    memberID,
		LeaderID:    leaderID,
		ScheduledAt: at,
		Purpose:     purpose,
		Status:      models.InterviewScheduled,
	})
}

func (s *InterviewService) Get(ctx context.Context, id uuid.UUID) (models.Interview, error) {
	return s.interviewRepo.Get(ctx, id)
}

func (s *InterviewService) ListUpcoming(ctx context.Context, leaderID *uuid.UUID) ([]models.Interview, error) {
	return s.interviewRepo.ListUpcoming(ctx, leaderID, time.Now())
}

func (s *InterviewService) Complete(ctx context.Context, id uuid.UUID) (models.Interview, error) {
	return s.interviewRepo.SetStatus(ctx, id, models.InterviewCompleted)
}

func (s *InterviewService) Cancel(ctx context.Context, id uuid.UUID) (models.Interview, error) {
	return s.interviewRepo.SetStatus(ctx, id, models.InterviewCancelled)
}
