package dto

// ChildStats are the linked student's own numbers on the parent dashboard.
type ChildStats struct {
	DisplayName    string `json:"display_name"`
	Grade          string `json:"grade"`
	Role           string `json:"role"`
	Points         int    `json:"points"`
	QuestionsAsked int64  `json:"questions_asked"`
	AnswersGiven   int64  `json:"answers_given"`
}

// ClassAverages are per-student averages across the child's grade,
// floor-clamped so an empty class never reports zero.
type ClassAverages struct {
	Questions int `json:"questions"`
	Answers   int `json:"answers"`
	Points    int `json:"points"`
}

type ParentDashboardResponse struct {
	Child        ChildStats    `json:"child"`
	ClassAverage ClassAverages `json:"class_average"`
}

type KudosRequest struct {
	Message string `json:"message" binding:"omitempty,max=500"`
}
