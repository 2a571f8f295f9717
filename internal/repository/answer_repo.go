package repository

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// CreateWithSideEffects inserts the answer, flips the question status to
	// answered and credits the answerer inside a single transaction.
	CreateWithSideEffects(ctx context.Context, answer *model.Answer, points int, promoteToRoleID *uint) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Answer, error)
	// Rate annotates the answer and credits the answerer atomically.
	Rate(ctx context.Context, answerID uuid.UUID, rating int, ratedBy uuid.UUID, points int, promoteToRoleID *uint) error
	IncrementUpvotes(ctx context.Context, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) CreateWithSideEffects(ctx context.Context, answer *model.Answer, points int, promoteToRoleID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Question{}).
			Where("id = ?", answer.QuestionID).
			Update("status", model.QuestionStatusAnswered).Error; err != nil {
			return err
		}

		if err := creditUser(tx, answer.AnsweredByID, points, model.PointActionAnswer, answer.ID.String(), promoteToRoleID); err != nil {
			return err
		}

		return nil
	})
}

func (r *answerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Answer, error) {
	var answer model.Answer
	if err := r.db.WithContext(ctx).
		Preload("AnsweredBy").
		Preload("AnsweredBy.Role").
		Preload("Question").
		Where("id = ?", id).
		First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Rate(ctx context.Context, answerID uuid.UUID, rating int, ratedBy uuid.UUID, points int, promoteToRoleID *uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer model.Answer
		if err := tx.Where("id = ?", answerID).First(&answer).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Answer{}).
			Where("id = ?", answerID).
			Updates(map[string]interface{}{
				"rating":      rating,
				"rated_by_id": ratedBy,
			}).Error; err != nil {
			return err
		}

		if err := creditUser(tx, answer.AnsweredByID, points, model.PointActionRating, answerID.String(), promoteToRoleID); err != nil {
			return err
		}

		return nil
	})
}

// creditUser bumps the points counter, appends a point log entry and, when a
// promotion role is supplied, flips the user's role in the same transaction.
func creditUser(tx *gorm.DB, userID uuid.UUID, points int, action, referenceID string, promoteToRoleID *uint) error {
	if points <= 0 {
		return nil
	}

	if err := tx.Model(&model.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
		return err
	}

	entry := &model.PointLog{
		UserID:      userID,
		ActionType:  action,
		Points:      points,
		ReferenceID: referenceID,
	}
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	if promoteToRoleID != nil {
		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("role_id", *promoteToRoleID).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *answerRepository) IncrementUpvotes(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.Answer{}).
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

func (r *answerRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Answer{}).
		Where("answered_by_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *answerRepository) CountByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		AnsweredByID uuid.UUID
		Count        int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Answer{}).
		Select("answered_by_id, COUNT(*) AS count").
		Where("answered_by_id IN ?", userIDs).
		Group("answered_by_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.AnsweredByID] = r.Count
	}
	return counts, nil
}
