package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User covers all four account kinds. Exactly one of Grade, Subject and
// StudentEmail is populated depending on the role: students and tutors carry
// a grade, teachers a subject, parents the email of their linked student.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName  string    `gorm:"size:100;not null" json:"display_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	Grade        *string   `gorm:"size:10;index" json:"grade,omitempty"`
	Subject      *string   `gorm:"size:100" json:"subject,omitempty"`
	StudentEmail *string   `gorm:"size:100" json:"student_email,omitempty"`
	Points       int       `gorm:"default:0" json:"points"`
	ProfileImage *string   `gorm:"type:text" json:"profile_image,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
