package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FileTypePDF   = "pdf"
	FileTypeImage = "image"
	FileTypeOther = "other"
)

// Resource is immutable after creation; there is no update or delete path.
type Resource struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	FileType     string    `gorm:"size:20;default:other" json:"file_type"`
	Subject      string    `gorm:"size:100;index" json:"subject"`
	Topic        string    `gorm:"size:100" json:"topic"`
	Grade        string    `gorm:"size:10;index;not null" json:"grade"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	UploadedBy   User      `gorm:"foreignKey:UploadedByID;constraint:OnDelete:CASCADE" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// Download is a per-user provenance record of a locally cached resource.
type Download struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null" json:"resource_id"`
	Resource   Resource  `gorm:"foreignKey:ResourceID;constraint:OnDelete:CASCADE" json:"resource,omitempty"`
	FilePath   string    `gorm:"type:text" json:"file_path"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
