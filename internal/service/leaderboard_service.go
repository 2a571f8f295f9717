package service

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
)

type LeaderboardService interface {
	// Top returns the highest-scoring students and tutors, optionally
	// restricted to a single grade.
	Top(ctx context.Context, grade string, limit int) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	userRepo repository.UserRepository
}

func NewLeaderboardService(userRepo repository.UserRepository) LeaderboardService {
	return &leaderboardService{userRepo: userRepo}
}

func (s *leaderboardService) Top(ctx context.Context, grade string, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if grade != "" {
		grade = policy.NormalizeGrade(grade)
	}

	users, err := s.userRepo.TopByPoints(ctx, grade, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, dto.LeaderboardEntry{
			Position:    i + 1,
			DisplayName: user.DisplayName,
			Role:        user.Role.Name,
			Grade:       user.Grade,
			Points:      user.Points,
			Image:       user.ProfileImage,
		})
	}

	return entries, nil
}
