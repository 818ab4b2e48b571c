package calling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/apperrors"
	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type CallingService struct {
	callingRepo repository.CallingRepo
	memberRepo  repository.MemberRepo
}

func NewService(callingRepo repository.CallingRepo, memberRepo repository.MemberRepo) *CallingService {
	return &CallingService{
		callingRepo: callingRepo,
		memberRepo:  memberRepo,
	}
}

// Propose creates a calling in the proposed state for an existing member
func (s *CallingService) Propose(ctx context.Context, memberID uuid.UUID, organization string, title string) (models.Calling, error) {
	if _, err := s.memberRepo.Get(ctx, memberID); err != nil {
		return models.Calling{}, err
	}

	return s.callingRepo.Create(ctx, models.Calling{
		MemberID:     memberID,
		Organization: organization,
		Title:        title,
		Status:       models.CallingProposed,
	})
}

func (s *CallingService) Get(ctx context.Context, id uuid.UUID) (models.Calling, error) {
	return s.callingRepo.Get(ctx, id)
}

func (s *CallingService) List(ctx context.Context, memberID *uuid.UUID) ([]models.Calling, error) {
	return s.callingRepo.List(ctx, memberID)
}

// Advance moves the calling along its lifecycle
// A released calling keeps its released_at and cannot move again
func (s *CallingService) Advance(ctx context.Context, id uuid.UUID, status string) (models.Calling, error) {
	current, err := s.callingRepo.Get(ctx, id)
	if err != nil {
		return models.Calling{}, err
	}
	if current.Status == models.CallingReleased {
		return models.Calling{}, apperrors.ErrCallingReleased
	}

	var releasedAt *time.Time
	if status == models.CallingReleased {
		now := time.Now()
		releasedAt = &now
	}

	return s.callingRepo.SetStatus(ctx, id, status, releasedAt)
}
