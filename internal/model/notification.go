package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationAnswer      = "answer"
	NotificationUpvote      = "upvote"
	NotificationResource    = "resource"
	NotificationAchievement = "achievement"
	NotificationKudos       = "kudos"
)

type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	Type       string     `gorm:"size:50;not null" json:"type"`
	Title      string     `gorm:"size:255" json:"title"`
	Message    string     `gorm:"type:text" json:"message"`
	QuestionID *uuid.UUID `gorm:"type:uuid" json:"question_id,omitempty"`
	Read       bool       `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	User  *User `gorm:"foreignKey:UserID" json:"-"`
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
