package dto

import "time"

type CreateStudyTaskRequest struct {
	Title         string     `json:"title" binding:"required,max=255"`
	Subject       string     `json:"subject"`
	Priority      string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *time.Time `json:"due_date"`
	EstimatedTime int        `json:"estimated_time" binding:"omitempty,min=0"`
}

type UpdateStudyTaskRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=255"`
	Subject       *string    `json:"subject"`
	Priority      *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate       *time.Time `json:"due_date"`
	EstimatedTime *int       `json:"estimated_time" binding:"omitempty,min=0"`
	Completed     *bool      `json:"completed"`
}

type CreateStudySessionRequest struct {
	Subject   string    `json:"subject" binding:"required"`
	Duration  int       `json:"duration" binding:"required,min=1"`
	StartTime time.Time `json:"start_time" binding:"required"`
}

type UpdateStudySessionRequest struct {
	EndTime        *time.Time `json:"end_time"`
	ActualDuration *int       `json:"actual_duration" binding:"omitempty,min=0"`
	PausedTime     *int       `json:"paused_time" binding:"omitempty,min=0"`
	Completed      *bool      `json:"completed"`
}
