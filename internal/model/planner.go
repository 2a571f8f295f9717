package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudyTask and StudySession are single-owner planner entities; only the
// owning user ever reads or writes them.

type StudyTask struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Subject       string     `gorm:"size:100" json:"subject"`
	Priority      string     `gorm:"size:20;default:medium" json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	EstimatedTime int        `gorm:"default:0" json:"estimated_time"` // minutes
	Completed     bool       `gorm:"default:false" json:"completed"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *StudyTask) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type StudySession struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject        string     `gorm:"size:100" json:"subject"`
	Duration       int        `gorm:"default:0" json:"duration"` // planned minutes
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	ActualDuration int        `gorm:"default:0" json:"actual_duration"`
	PausedTime     int        `gorm:"default:0" json:"paused_time"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *StudySession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}
