package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentService interface {
	// Dashboard resolves the linked student and compares them against the
	// class averages for their grade.
	Dashboard(ctx context.Context, parentID uuid.UUID) (*dto.ParentDashboardResponse, error)
	// SendKudos delivers an encouragement notification to the linked student.
	SendKudos(ctx context.Context, parentID uuid.UUID, message string) error
}

type parentService struct {
	userRepo      repository.UserRepository
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	notifications NotificationService
}

func NewParentService(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	notifications NotificationService,
) ParentService {
	return &parentService{
		userRepo:      userRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		notifications: notifications,
	}
}

func (s *parentService) Dashboard(ctx context.Context, parentID uuid.UUID) (*dto.ParentDashboardResponse, error) {
	child, err := s.linkedStudent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	grade := policy.NormalizeGrade(gradeOf(child))

	childQuestions, err := s.questionRepo.CountByUser(ctx, child.ID)
	if err != nil {
		return nil, err
	}
	childAnswers, err := s.answerRepo.CountByUser(ctx, child.ID)
	if err != nil {
		return nil, err
	}

	averages, err := s.classAverages(ctx, grade)
	if err != nil {
		return nil, err
	}

	return &dto.ParentDashboardResponse{
		Child: dto.ChildStats{
			DisplayName:    child.DisplayName,
			Grade:          grade,
			Role:           child.Role.Name,
			Points:         child.Points,
			QuestionsAsked: childQuestions,
			AnswersGiven:   childAnswers,
		},
		ClassAverage: *averages,
	}, nil
}

func (s *parentService) SendKudos(ctx context.Context, parentID uuid.UUID, message string) error {
	child, err := s.linkedStudent(ctx, parentID)
	if err != nil {
		return err
	}

	if message == "" {
		message = "Your parent is proud of your progress. Keep it up!"
	}

	return s.notifications.Create(ctx, &model.Notification{
		UserID:  child.ID,
		ActorID: &parentID,
		Type:    model.NotificationKudos,
		Title:   "Kudos from your parent",
		Message: message,
	})
}

// linkedStudent resolves the parent's stored student email to an account
// with a student or tutor role.
func (s *parentService) linkedStudent(ctx context.Context, parentID uuid.UUID) (*model.User, error) {
	parent, err := s.userRepo.FindByID(ctx, parentID.String())
	if err != nil {
		return nil, err
	}

	if policy.NormalizeRole(parent.Role.Name) != policy.RoleParent {
		return nil, apperror.New(http.StatusForbidden, "only parent accounts have a dashboard", apperror.ErrForbidden)
	}
	if parent.StudentEmail == nil || *parent.StudentEmail == "" {
		return nil, apperror.New(http.StatusBadRequest, "no student linked to this account", apperror.ErrBadRequest)
	}

	child, err := s.userRepo.FindByEmailAndRoles(ctx, *parent.StudentEmail,
		[]string{string(policy.RoleStudent), string(policy.RoleTutor)})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound,
				fmt.Sprintf("student not found for %s", *parent.StudentEmail), apperror.ErrNotFound)
		}
		return nil, err
	}

	return child, nil
}

// classAverages computes per-student averages for a grade with grouped
// counts instead of scanning every question per student. Averages are
// floor-clamped so a grade with no peers never reports zero.
func (s *parentService) classAverages(ctx context.Context, grade string) (*dto.ClassAverages, error) {
	students, err := s.userRepo.FindStudentsByGrade(ctx, grade)
	if err != nil {
		return nil, err
	}

	if len(students) == 0 {
		return &dto.ClassAverages{
			Questions: policy.ClassAverageFloor,
			Answers:   policy.ClassAverageFloor,
			Points:    policy.ClassAverageFloor,
		}, nil
	}

	ids := make([]uuid.UUID, 0, len(students))
	totalPoints := 0
	for _, student := range students {
		ids = append(ids, student.ID)
		totalPoints += student.Points
	}

	questionCounts, err := s.questionRepo.CountByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	answerCounts, err := s.answerRepo.CountByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	var totalQuestions, totalAnswers int64
	for _, id := range ids {
		totalQuestions += questionCounts[id]
		totalAnswers += answerCounts[id]
	}

	n := int64(len(students))
	return &dto.ClassAverages{
		Questions: clampAverage(totalQuestions, n),
		Answers:   clampAverage(totalAnswers, n),
		Points:    clampAverage(int64(totalPoints), n),
	}, nil
}

func clampAverage(total, count int64) int {
	avg := int(total / count)
	if avg < policy.ClassAverageFloor {
		return policy.ClassAverageFloor
	}
	return avg
}
