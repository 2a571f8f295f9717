package repository

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Resource, error)
	FindByGrade(ctx context.Context, grade string, subject string, offset, limit int) ([]*model.Resource, int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).
		Preload("UploadedBy").
		Where("id = ?", id).
		First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) FindByGrade(ctx context.Context, grade string, subject string, offset, limit int) ([]*model.Resource, int64, error) {
	var resources []*model.Resource
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Resource{}).
		Where("grade = ?", grade)

	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("UploadedBy").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&resources).Error; err != nil {
		return nil, 0, err
	}

	return resources, total, nil
}
