package dto

import "github.com/edulink-app/edulink-api/internal/model"

type RegisterRequest struct {
	DisplayName  string  `json:"display_name" binding:"required,min=2,max=100"`
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8"`
	Role         string  `json:"role" binding:"omitempty,oneof=student tutor teacher parent"`
	Grade        *string `json:"grade"`
	Subject      *string `json:"subject"`
	StudentEmail *string `json:"student_email"`
	ProfileImage *string `json:"profile_image"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token,omitempty"`
	TokenType   string      `json:"token_type,omitempty"`
	ExpiresIn   int64       `json:"expires_in,omitempty"`
	User        *model.User `json:"user"`
	// Existing is true when registration matched an already stored email and
	// the stored profile was returned instead of a new record.
	Existing bool `json:"existing,omitempty"`
}
