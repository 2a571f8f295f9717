package service

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/repository"
)

// StatService exposes platform-wide totals for dashboards.
type StatService interface {
	TotalUsers(ctx context.Context) (int64, error)
}

type statService struct {
	userRepo repository.UserRepository
}

func NewStatService(userRepo repository.UserRepository) StatService {
	return &statService{userRepo: userRepo}
}

func (s *statService) TotalUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
