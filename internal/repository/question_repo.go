package repository

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	FindByGrade(ctx context.Context, grade string, offset, limit int) ([]*model.Question, int64, error)
	FindAnswerable(ctx context.Context, grades []string, excludeUserID uuid.UUID, subject string, unansweredOnly bool, offset, limit int) ([]*model.Question, int64, error)
	IncrementUpvotes(ctx context.Context, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).
		Preload("AskedBy").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC")
		}).
		Preload("Answers.AnsweredBy").
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByGrade(ctx context.Context, grade string, offset, limit int) ([]*model.Question, int64, error) {
	var questions []*model.Question
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("grade = ?", grade)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("AskedBy").
		Preload("Answers").
		Preload("Answers.AnsweredBy").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *questionRepository) FindAnswerable(ctx context.Context, grades []string, excludeUserID uuid.UUID, subject string, unansweredOnly bool, offset, limit int) ([]*model.Question, int64, error) {
	var questions []*model.Question
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("grade IN ?", grades).
		Where("asked_by_id <> ?", excludeUserID)

	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if unansweredOnly {
		query = query.Where("status = ?", model.QuestionStatusUnanswered)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("AskedBy").
		Preload("Answers").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *questionRepository) IncrementUpvotes(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ?", id).
		Update("upvotes", gorm.Expr("upvotes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("asked_by_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *questionRepository) CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		AskedByID uuid.UUID
		Count     int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Select("asked_by_id, COUNT(*) AS count").
		Where("asked_by_id IN ?", userIDs).
		Group("asked_by_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.AskedByID] = r.Count
	}
	return counts, nil
}
