package member

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhansen/wardbook/internal/models"
	"github.com/jhansen/wardbook/internal/repository"
)

type MemberService struct {
	// Repository to access long term data
	memberRepo repository.MemberRepo
}

func NewService(memberRepo repository.MemberRepo) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
	}
}

func (s *MemberService) Create(ctx context.Context, member models.Member) (models.Member, error) {
	return s.memberRepo.Create(ctx, member)
}

func (s *MemberService) Get(ctx context.Context, id uuid.UUID) (models.Member, error) {
	return s.memberRepo.Get(ctx, id)
}

func (s *MemberService) List(ctx context.Context, search string) ([]models.Member, error) {
	return s.memberRepo.List(ctx, search)
}

func (s *MemberService) Update(ctx context.Context, member models.Member) (models.Member, error) {
	return s.memberRepo.Update(ctx, member)
}

func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.memberRepo.Delete(ctx, id)
}
