package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnswerService interface {
	// Submit runs the answer workflow: persist the answer, flip the question
	// to answered and credit the answerer in one transaction, then send a
	// best-effort notification to the asker.
	Submit(ctx context.Context, userID, questionID uuid.UUID, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error)
	// Rate lets the asker award one of the fixed point values to an answer.
	Rate(ctx context.Context, raterID, answerID uuid.UUID, value int) error
}

type answerService struct {
	answerRepo    repository.AnswerRepository
	questionRepo  repository.QuestionRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	limiter       RateLimiter

	answerCooldown time.Duration
	globalCooldown time.Duration
}

func NewAnswerService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	limiter RateLimiter,
	answerCooldown, globalCooldown time.Duration,
) AnswerService {
	return &answerService{
		answerRepo:     answerRepo,
		questionRepo:   questionRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		limiter:        limiter,
		answerCooldown: answerCooldown,
		globalCooldown: globalCooldown,
	}
}

func (s *answerService) Submit(ctx context.Context, userID, questionID uuid.UUID, req dto.SubmitAnswerRequest) (*dto.AnswerResponse, error) {
	text := strings.TrimSpace(req.Text)
	length := utf8.RuneCountInString(text)
	if length < policy.MinAnswerLength {
		return nil, apperror.New(http.StatusBadRequest,
			fmt.Sprintf("answer must be at least %d characters", policy.MinAnswerLength), apperror.ErrInvalidInput)
	}
	if length > policy.MaxAnswerLength {
		return nil, apperror.New(http.StatusBadRequest,
			fmt.Sprintf("answer must be at most %d characters", policy.MaxAnswerLength), apperror.ErrInvalidInput)
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusNotFound, "question not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	if question.AskedByID == userID {
		return nil, apperror.New(http.StatusForbidden, "you cannot answer your own question", apperror.ErrForbidden)
	}

	answerer, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	if err := checkGlobalCooldown(ctx, s.limiter, userID, s.globalCooldown); err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Acquire(ctx, userID, "answer", s.answerCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := s.limiter.TTL(ctx, userID, "answer")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you are answering too fast, please wait %.0f seconds", ttl.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	answer := &model.Answer{
		QuestionID:   questionID,
		AnsweredByID: userID,
		Text:         text,
		ImageURL:     req.ImageURL,
	}

	promoteRoleID, promoted, err := s.promotionTarget(ctx, answerer, policy.PointsPerAnswer)
	if err != nil {
		s.releaseCooldowns(ctx, userID)
		return nil, err
	}

	if err := s.answerRepo.CreateWithSideEffects(ctx, answer, policy.PointsPerAnswer, promoteRoleID); err != nil {
		s.releaseCooldowns(ctx, userID)
		return nil, err
	}

	s.notifyAnswer(question, answerer, answer, promoted)

	answer.AnsweredBy = *answerer
	return &dto.AnswerResponse{
		ID:        answer.ID,
		Text:      answer.Text,
		ImageURL:  answer.ImageURL,
		Author:    mapAuthor(answerer),
		CreatedAt: answer.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *answerService) Rate(ctx context.Context, raterID, answerID uuid.UUID, value int) error {
	if !policy.ValidRating(value) {
		return apperror.New(http.StatusBadRequest,
			"rating must be one of 5, 10, 15, 20 or 25", apperror.ErrInvalidInput)
	}

	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "answer not found", apperror.ErrNotFound)
		}
		return err
	}

	if answer.Question.AskedByID != raterID {
		return apperror.New(http.StatusForbidden, "only the asker can rate an answer", apperror.ErrForbidden)
	}
	if answer.Rating != nil {
		return apperror.New(http.StatusConflict, "answer has already been rated", apperror.ErrConflict)
	}

	promoteRoleID, promoted, err := s.promotionTarget(ctx, &answer.AnsweredBy, value)
	if err != nil {
		return err
	}

	if err := s.answerRepo.Rate(ctx, answerID, value, raterID, value, promoteRoleID); err != nil {
		return err
	}

	if s.notifications != nil {
		s.notifications.NotifyAsync(&model.Notification{
			UserID:     answer.AnsweredByID,
			ActorID:    &raterID,
			Type:       model.NotificationAchievement,
			Title:      "Your answer was rated",
			Message:    fmt.Sprintf("You earned %d points for your answer on %q", value, answer.Question.Title),
			QuestionID: &answer.QuestionID,
		})

		if promoted {
			s.notifyPromotion(answer.AnsweredByID, answer.AnsweredBy.Points+value)
		}
	}

	return nil
}

func (s *answerService) releaseCooldowns(ctx context.Context, userID uuid.UUID) {
	_ = s.limiter.Release(ctx, userID, "answer")
	_ = s.limiter.Release(ctx, userID, "global")
}

// promotionTarget decides whether crediting points promotes the user. When it
// does, the tutor role ID is returned so the role flip joins the same
// transaction as the points update.
func (s *answerService) promotionTarget(ctx context.Context, user *model.User, points int) (*uint, bool, error) {
	role := policy.NormalizeRole(user.Role.Name)
	if !policy.ShouldPromote(role, user.Points+points) {
		return nil, false, nil
	}

	tutorRole, err := s.userRepo.FindRoleByName(ctx, string(policy.RoleTutor))
	if err != nil {
		return nil, false, err
	}
	return &tutorRole.ID, true, nil
}

func (s *answerService) notifyAnswer(question *model.Question, answerer *model.User, answer *model.Answer, promoted bool) {
	if s.notifications == nil {
		return
	}

	s.notifications.NotifyAsync(&model.Notification{
		UserID:     question.AskedByID,
		ActorID:    &answerer.ID,
		Type:       model.NotificationAnswer,
		Title:      "Your question was answered",
		Message:    fmt.Sprintf("%s answered your question %q", answerer.DisplayName, question.Title),
		QuestionID: &question.ID,
	})

	if promoted {
		s.notifyPromotion(answerer.ID, answerer.Points+policy.PointsPerAnswer)
	}
}

func (s *answerService) notifyPromotion(userID uuid.UUID, points int) {
	s.notifications.NotifyAsync(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationAchievement,
		Title:   "You are now a tutor!",
		Message: fmt.Sprintf("You reached %d points and can now help students in lower grades.", points),
	})
}
