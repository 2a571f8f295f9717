package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionStatusUnanswered = "unanswered"
	QuestionStatusAnswered   = "answered"
)

type Question struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Subject     string    `gorm:"size:100;index" json:"subject"`
	Topic       string    `gorm:"size:100" json:"topic"`
	Grade       string    `gorm:"size:10;index;not null" json:"grade"`
	AskedByID   uuid.UUID `gorm:"type:uuid;not null;index" json:"asked_by_id"`
	AskedBy     User      `gorm:"foreignKey:AskedByID;constraint:OnDelete:CASCADE" json:"asked_by,omitempty"`
	ImageURL    *string   `gorm:"type:text" json:"image_url,omitempty"`
	Upvotes     int       `gorm:"default:0" json:"upvotes"`
	Status      string    `gorm:"size:20;default:unanswered;index" json:"status"`
	Answers     []Answer  `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID, err = uuid.NewV7()
	}
	return
}

// Answer is a first-class row with a stable ID so ratings and upvotes can
// address it directly instead of indexing into an embedded array.
type Answer struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_id"`
	Question     Question   `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
	AnsweredByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"answered_by_id"`
	AnsweredBy   User       `gorm:"foreignKey:AnsweredByID;constraint:OnDelete:CASCADE" json:"answered_by,omitempty"`
	Text         string     `gorm:"type:text;not null" json:"text"`
	ImageURL     *string    `gorm:"type:text" json:"image_url,omitempty"`
	Upvotes      int        `gorm:"default:0" json:"upvotes"`
	IsAccepted   bool       `gorm:"default:false" json:"is_accepted"`
	Rating       *int       `json:"rating,omitempty"`
	RatedByID    *uuid.UUID `gorm:"type:uuid" json:"rated_by_id,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
