package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type QuestionService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	Get(ctx context.Context, userID, questionID uuid.UUID) (*dto.QuestionResponse, error)
	ListByClassroom(ctx context.Context, userID uuid.UUID, classroom string, filter dto.PageFilter) (*dto.PaginatedQuestionResponse, error)
	// AnswerableFeed lists questions the viewer may answer: everything inside
	// the viewer's visible grade set minus their own questions.
	AnswerableFeed(ctx context.Context, userID uuid.UUID, filter dto.FeedFilter) (*dto.PaginatedQuestionResponse, error)
	Upvote(ctx context.Context, userID, questionID uuid.UUID, answerID *uuid.UUID) error
}

type questionService struct {
	questionRepo  repository.QuestionRepository
	answerRepo    repository.AnswerRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	search        SearchService
	limiter       RateLimiter
	sanitizer     *bluemonday.Policy

	questionCooldown time.Duration
	globalCooldown   time.Duration
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	search SearchService,
	limiter RateLimiter,
	questionCooldown, globalCooldown time.Duration,
) QuestionService {
	return &questionService{
		questionRepo:     questionRepo,
		answerRepo:       answerRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		search:           search,
		limiter:          limiter,
		sanitizer:        bluemonday.UGCPolicy(),
		questionCooldown: questionCooldown,
		globalCooldown:   globalCooldown,
	}
}

func (s *questionService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := checkGlobalCooldown(ctx, s.limiter, userID, s.globalCooldown); err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Acquire(ctx, userID, "question", s.questionCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := s.limiter.TTL(ctx, userID, "question")
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("you can only post one question every %.0f seconds, please wait %.0f seconds", s.questionCooldown.Seconds(), ttl.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		s.releaseCooldowns(ctx, userID)
		return nil, err
	}

	role := policy.NormalizeRole(user.Role.Name)
	if role == policy.RoleParent {
		s.releaseCooldowns(ctx, userID)
		return nil, apperror.New(http.StatusForbidden, "parents cannot post questions", apperror.ErrForbidden)
	}

	question := &model.Question{
		Title:       req.Title,
		Description: s.sanitizer.Sanitize(req.Description),
		Subject:     req.Subject,
		Topic:       req.Topic,
		Grade:       policy.NormalizeGrade(req.Grade),
		AskedByID:   userID,
		ImageURL:    req.ImageURL,
		Status:      model.QuestionStatusUnanswered,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		s.releaseCooldowns(ctx, userID)
		return nil, err
	}

	question.AskedBy = *user
	if s.search != nil {
		go s.search.IndexQuestion(question)
	}

	return s.mapQuestion(question), nil
}

// releaseCooldowns gives both slots back when the question was rejected for a
// reason unrelated to posting frequency.
func (s *questionService) releaseCooldowns(ctx context.Context, userID uuid.UUID) {
	_ = s.limiter.Release(ctx, userID, "question")
	_ = s.limiter.Release(ctx, userID, "global")
}

func (s *questionService) Get(ctx context.Context, userID, questionID uuid.UUID) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	viewer, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	if question.AskedByID != userID && !canSeeGrade(viewer, question.Grade) {
		return nil, apperror.ErrForbidden
	}

	return s.mapQuestion(question), nil
}

func (s *questionService) ListByClassroom(ctx context.Context, userID uuid.UUID, classroom string, filter dto.PageFilter) (*dto.PaginatedQuestionResponse, error) {
	filter.Normalize()

	viewer, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	grade := policy.NormalizeGrade(classroom)
	if !canSeeGrade(viewer, grade) {
		return nil, apperror.New(http.StatusForbidden, "classroom is outside your visible grades", apperror.ErrForbidden)
	}

	questions, total, err := s.questionRepo.FindByGrade(ctx, grade, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}

	return s.paginate(questions, filter.Page, filter.Limit, total), nil
}

func (s *questionService) AnswerableFeed(ctx context.Context, userID uuid.UUID, filter dto.FeedFilter) (*dto.PaginatedQuestionResponse, error) {
	filter.Normalize()

	viewer, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	grades := policy.VisibleGrades(policy.NormalizeRole(viewer.Role.Name), gradeOf(viewer))
	if len(grades) == 0 {
		return nil, apperror.New(http.StatusForbidden, "your role has no question feed", apperror.ErrForbidden)
	}

	questions, total, err := s.questionRepo.FindAnswerable(ctx, grades, userID, filter.Subject, filter.UnansweredOnly, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}

	return s.paginate(questions, filter.Page, filter.Limit, total), nil
}

func (s *questionService) Upvote(ctx context.Context, userID, questionID uuid.UUID, answerID *uuid.UUID) error {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if answerID == nil {
		if err := s.questionRepo.IncrementUpvotes(ctx, questionID); err != nil {
			return err
		}
		if question.AskedByID != userID && s.notifications != nil {
			s.notifications.NotifyAsync(&model.Notification{
				UserID:     question.AskedByID,
				ActorID:    &userID,
				Type:       model.NotificationUpvote,
				Title:      "Your question got an upvote",
				Message:    fmt.Sprintf("Someone upvoted your question %q", question.Title),
				QuestionID: &question.ID,
			})
		}
		return nil
	}

	answer, err := s.answerRepo.FindByID(ctx, *answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	if answer.QuestionID != questionID {
		return apperror.New(http.StatusBadRequest, "answer does not belong to this question", apperror.ErrBadRequest)
	}

	if err := s.answerRepo.IncrementUpvotes(ctx, *answerID); err != nil {
		return err
	}

	if answer.AnsweredByID != userID && s.notifications != nil {
		s.notifications.NotifyAsync(&model.Notification{
			UserID:     answer.AnsweredByID,
			ActorID:    &userID,
			Type:       model.NotificationUpvote,
			Title:      "Your answer got an upvote",
			Message:    fmt.Sprintf("Someone upvoted your answer on %q", question.Title),
			QuestionID: &question.ID,
		})
	}

	return nil
}

func (s *questionService) paginate(questions []*model.Question, page, limit int, total int64) *dto.PaginatedQuestionResponse {
	responses := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, *s.mapQuestion(q))
	}
	return &dto.PaginatedQuestionResponse{
		Data: responses,
		Meta: dto.NewPaginationMeta(page, limit, total),
	}
}

func (s *questionService) mapQuestion(q *model.Question) *dto.QuestionResponse {
	answers := make([]dto.AnswerResponse, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, dto.AnswerResponse{
			ID:         a.ID,
			Text:       a.Text,
			ImageURL:   a.ImageURL,
			Upvotes:    a.Upvotes,
			IsAccepted: a.IsAccepted,
			Rating:     a.Rating,
			Author:     mapAuthor(&a.AnsweredBy),
			CreatedAt:  a.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.QuestionResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Subject:     q.Subject,
		Topic:       q.Topic,
		Grade:       q.Grade,
		ImageURL:    q.ImageURL,
		Upvotes:     q.Upvotes,
		Status:      q.Status,
		Author:      mapAuthor(&q.AskedBy),
		Answers:     answers,
		CreatedAt:   q.CreatedAt.Format(time.RFC3339),
	}
}

func mapAuthor(u *model.User) dto.AuthorResponse {
	if u == nil || u.ID == uuid.Nil {
		return dto.AuthorResponse{DisplayName: "Unknown"}
	}
	return dto.AuthorResponse{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Role:        u.Role.Name,
		Grade:       u.Grade,
		Image:       u.ProfileImage,
	}
}

func gradeOf(u *model.User) string {
	if u.Grade != nil {
		return *u.Grade
	}
	return ""
}

func canSeeGrade(viewer *model.User, grade string) bool {
	return policy.CanSee(policy.NormalizeRole(viewer.Role.Name), gradeOf(viewer), grade)
}
