package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PointActionAnswer = "answer_submitted"
	PointActionRating = "answer_rated"
)

// PointLog is an append-only audit of every points mutation. The running
// total lives on User.Points; the log explains how it got there.
type PointLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_points_user_date,priority:1;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	ActionType  string    `gorm:"size:50;not null" json:"action_type"`
	Points      int       `gorm:"not null" json:"points"`
	ReferenceID string    `gorm:"size:36" json:"reference_id"` // answer UUID
	CreatedAt   time.Time `gorm:"index:idx_points_user_date,priority:2" json:"created_at"`
}
