package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "unit-test-secret"

// stubUserRepo serves a single user to RequireRole without a database. The
// embedded interface covers the methods these tests never hit.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
	err  error
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func signToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token failed: %v", err)
	}
	return signed
}

func newProtectedRouter(m *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New().String()
	m := NewAuthMiddleware(&stubUserRepo{}, testSecret)
	router := newProtectedRouter(m)

	valid := signToken(t, testSecret, userID, time.Now().Add(time.Hour))

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"missing token", "", "", http.StatusUnauthorized},
		{"valid bearer token", "Bearer " + valid, "", http.StatusOK},
		{"token via query parameter", "", valid, http.StatusOK},
		{"malformed header scheme", "Token " + valid, "", http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, testSecret, userID, time.Now().Add(-time.Minute)), "", http.StatusUnauthorized},
		{"token signed with wrong secret", "Bearer " + signToken(t, "other-secret", userID, time.Now().Add(time.Hour)), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/protected"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body["user_id"] != userID {
				t.Errorf("user_id = %q, want %q", body["user_id"], userID)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	userID := uuid.New().String()
	token := signToken(t, testSecret, userID, time.Now().Add(time.Hour))

	tests := []struct {
		name       string
		repo       *stubUserRepo
		wantStatus int
	}{
		{
			"allowed role passes",
			&stubUserRepo{user: &model.User{Role: model.Role{Name: string(policy.RoleParent)}}},
			http.StatusOK,
		},
		{
			"other role is rejected",
			&stubUserRepo{user: &model.User{Role: model.Role{Name: string(policy.RoleStudent)}}},
			http.StatusForbidden,
		},
		{
			"unknown user is rejected",
			&stubUserRepo{err: errors.New("record not found")},
			http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(tt.repo, testSecret)
			router := newProtectedRouter(m, m.RequireRole(policy.RoleParent))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
