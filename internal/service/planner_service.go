package service

import (
	"context"
	"errors"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlannerService manages a user's study tasks and timed study sessions.
// Every operation is scoped to the owner; there is no sharing model.
type PlannerService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req dto.CreateStudyTaskRequest) (*model.StudyTask, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*model.StudyTask, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req dto.UpdateStudyTaskRequest) (*model.StudyTask, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	CreateSession(ctx context.Context, userID uuid.UUID, req dto.CreateStudySessionRequest) (*model.StudySession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*model.StudySession, error)
	UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req dto.UpdateStudySessionRequest) (*model.StudySession, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

type plannerService struct {
	repo repository.PlannerRepository
}

func NewPlannerService(repo repository.PlannerRepository) PlannerService {
	return &plannerService{repo: repo}
}

func (s *plannerService) CreateTask(ctx context.Context, userID uuid.UUID, req dto.CreateStudyTaskRequest) (*model.StudyTask, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	task := &model.StudyTask{
		UserID:        userID,
		Title:         req.Title,
		Subject:       req.Subject,
		Priority:      priority,
		DueDate:       req.DueDate,
		EstimatedTime: req.EstimatedTime,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *plannerService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*model.StudyTask, error) {
	return s.repo.FindTasksByUser(ctx, userID)
}

func (s *plannerService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req dto.UpdateStudyTaskRequest) (*model.StudyTask, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Subject != nil {
		task.Subject = *req.Subject
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedTime != nil {
		task.EstimatedTime = *req.EstimatedTime
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *plannerService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, taskID)
}

func (s *plannerService) CreateSession(ctx context.Context, userID uuid.UUID, req dto.CreateStudySessionRequest) (*model.StudySession, error) {
	session := &model.StudySession{
		UserID:    userID,
		Subject:   req.Subject,
		Duration:  req.Duration,
		StartTime: req.StartTime,
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *plannerService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*model.StudySession, error) {
	return s.repo.FindSessionsByUser(ctx, userID)
}

func (s *plannerService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req dto.UpdateStudySessionRequest) (*model.StudySession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if req.EndTime != nil {
		session.EndTime = req.EndTime
	}
	if req.ActualDuration != nil {
		session.ActualDuration = *req.ActualDuration
	}
	if req.PausedTime != nil {
		session.PausedTime = *req.PausedTime
	}
	if req.Completed != nil {
		session.Completed = *req.Completed
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *plannerService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, sessionID)
}

func (s *plannerService) ownedTask(ctx context.Context, userID, taskID uuid.UUID) (*model.StudyTask, error) {
	task, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if task.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return task, nil
}

func (s *plannerService) ownedSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.StudySession, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return session, nil
}
