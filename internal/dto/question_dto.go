package dto

import "github.com/google/uuid"

type CreateQuestionRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=255"`
	Description string  `json:"description" binding:"required"`
	Subject     string  `json:"subject" binding:"required"`
	Topic       string  `json:"topic"`
	Grade       string  `json:"classroom" binding:"required"`
	ImageURL    *string `json:"image_url"`
}

type FeedFilter struct {
	PageFilter
	UnansweredOnly bool   `form:"unanswered_only"`
	Subject        string `form:"subject"`
}

type SubmitAnswerRequest struct {
	Text     string  `json:"text" binding:"required"`
	ImageURL *string `json:"image_url"`
}

type UpvoteRequest struct {
	AnswerID *string `json:"answer_id"`
}

type RateAnswerRequest struct {
	Value int `json:"value" binding:"required"`
}

type AnswerResponse struct {
	ID         uuid.UUID      `json:"id"`
	Text       string         `json:"text"`
	ImageURL   *string        `json:"image_url,omitempty"`
	Upvotes    int            `json:"upvotes"`
	IsAccepted bool           `json:"is_accepted"`
	Rating     *int           `json:"rating,omitempty"`
	Author     AuthorResponse `json:"answered_by"`
	CreatedAt  string         `json:"created_at"`
}

type QuestionResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Subject     string           `json:"subject"`
	Topic       string           `json:"topic"`
	Grade       string           `json:"classroom"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Upvotes     int              `json:"upvotes"`
	Status      string           `json:"status"`
	Author      AuthorResponse   `json:"asked_by"`
	Answers     []AnswerResponse `json:"answers"`
	CreatedAt   string           `json:"created_at"`
}

type PaginatedQuestionResponse struct {
	Data []QuestionResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}
