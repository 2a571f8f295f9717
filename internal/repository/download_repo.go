package repository

import (
	"context"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DownloadRepository interface {
	Create(ctx context.Context, download *model.Download) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Download, error)
}

type downloadRepository struct {
	db *gorm.DB
}

func NewDownloadRepository(db *gorm.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) Create(ctx context.Context, download *model.Download) error {
	return r.db.WithContext(ctx).Create(download).Error
}

func (r *downloadRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Download, error) {
	var downloads []*model.Download
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&downloads).Error
	return downloads, err
}
