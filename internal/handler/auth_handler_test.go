package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/service"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// stubAuthService lets handler tests script service outcomes without a
// database.
type stubAuthService struct {
	register func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	login    func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

func (s *stubAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.register(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.login(ctx, req)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return nil, apperror.ErrNotFound
}

func newAuthRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(svc)
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/user", h.Register)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpointStatusCodes(t *testing.T) {
	svc := &stubAuthService{
		register: func(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
			if req.Email == "known@example.com" {
				return &dto.AuthResponse{User: &model.User{Email: req.Email}, Existing: true}, nil
			}
			role := req.Role
			if role == "" {
				role = "student"
			}
			if role == "student" && req.Grade == nil {
				return nil, apperror.New(http.StatusBadRequest, "grade is required for students", apperror.ErrInvalidInput)
			}
			return &dto.AuthResponse{AccessToken: "token", TokenType: "Bearer", User: &model.User{Email: req.Email}}, nil
		},
	}
	router := newAuthRouter(svc)

	tests := []struct {
		name         string
		path         string
		body         map[string]any
		wantStatus   int
		wantExisting bool
	}{
		{
			"student with grade is created",
			"/api/auth/register",
			map[string]any{"display_name": "Student", "email": "new@example.com", "password": "secret123", "grade": "8"},
			http.StatusCreated,
			false,
		},
		{
			"student without grade is rejected",
			"/api/auth/register",
			map[string]any{"display_name": "Student", "email": "new@example.com", "password": "secret123"},
			http.StatusBadRequest,
			false,
		},
		{
			"duplicate email returns stored profile",
			"/api/auth/register",
			map[string]any{"display_name": "Student", "email": "known@example.com", "password": "secret123", "grade": "8"},
			http.StatusOK,
			true,
		},
		{
			"mobile alias creates accounts too",
			"/api/user",
			map[string]any{"display_name": "Student", "email": "new@example.com", "password": "secret123", "grade": "8"},
			http.StatusCreated,
			false,
		},
		{
			"missing password fails binding",
			"/api/user",
			map[string]any{"display_name": "Student", "email": "new@example.com", "grade": "8"},
			http.StatusBadRequest,
			false,
		},
		{
			"malformed email fails binding",
			"/api/auth/register",
			map[string]any{"display_name": "Student", "email": "not-an-email", "password": "secret123", "grade": "8"},
			http.StatusBadRequest,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantExisting {
				var resp dto.AuthResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if !resp.Existing {
					t.Errorf("existing flag not set for duplicate email")
				}
				if resp.AccessToken != "" {
					t.Errorf("duplicate registration must not hand out a token")
				}
			}
		})
	}
}

func TestLoginEndpointStatusCodes(t *testing.T) {
	svc := &stubAuthService{
		login: func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
			if req.Password != "secret123" {
				return nil, apperror.New(http.StatusUnauthorized, "invalid email or password", apperror.ErrUnauthorized)
			}
			return &dto.AuthResponse{AccessToken: "token", TokenType: "Bearer", User: &model.User{Email: req.Email}}, nil
		},
	}
	router := newAuthRouter(svc)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{"valid credentials", map[string]any{"email": "s@example.com", "password": "secret123"}, http.StatusOK},
		{"wrong password", map[string]any{"email": "s@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"missing password fails binding", map[string]any{"email": "s@example.com"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/auth/login", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
