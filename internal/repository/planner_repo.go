package repository

import (
	"context"
	"time"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlannerRepository interface {
	CreateTask(ctx context.Context, task *model.StudyTask) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (*model.StudyTask, error)
	FindTasksByUser(ctx context.Context, userID uuid.UUID) ([]*model.StudyTask, error)
	UpdateTask(ctx context.Context, task *model.StudyTask) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, session *model.StudySession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.StudySession, error)
	FindSessionsByUser(ctx context.Context, userID uuid.UUID) ([]*model.StudySession, error)
	UpdateSession(ctx context.Context, session *model.StudySession) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	CloseStaleSessions(ctx context.Context, startedBefore time.Time) (int64, error)
}

type plannerRepository struct {
	db *gorm.DB
}

func NewPlannerRepository(db *gorm.DB) PlannerRepository {
	return &plannerRepository{db: db}
}

func (r *plannerRepository) CreateTask(ctx context.Context, task *model.StudyTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *plannerRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.StudyTask, error) {
	var task model.StudyTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *plannerRepository) FindTasksByUser(ctx context.Context, userID uuid.UUID) ([]*model.StudyTask, error) {
	var tasks []*model.StudyTask
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("due_date ASC NULLS LAST, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *plannerRepository) UpdateTask(ctx context.Context, task *model.StudyTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *plannerRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StudyTask{}, "id = ?", id).Error
}

func (r *plannerRepository) CreateSession(ctx context.Context, session *model.StudySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *plannerRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.StudySession, error) {
	var session model.StudySession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *plannerRepository) FindSessionsByUser(ctx context.Context, userID uuid.UUID) ([]*model.StudySession, error) {
	var sessions []*model.StudySession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *plannerRepository) UpdateSession(ctx context.Context, session *model.StudySession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *plannerRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StudySession{}, "id = ?", id).Error
}

// CloseStaleSessions ends sessions that were never stopped. The actual
// duration is capped at the planned duration.
func (r *plannerRepository) CloseStaleSessions(ctx context.Context, startedBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.StudySession{}).
		Where("end_time IS NULL AND start_time < ?", startedBefore).
		Updates(map[string]interface{}{
			"end_time":        gorm.Expr("start_time + (duration || ' minutes')::interval"),
			"actual_duration": gorm.Expr("duration"),
			"completed":       false,
		})
	return result.RowsAffected, result.Error
}
