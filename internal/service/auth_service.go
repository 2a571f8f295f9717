package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/edulink-app/edulink-api/internal/dto"
	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	repo          repository.UserRepository
	notifications NotificationService
	secret        string
	tokenTTL      time.Duration
}

func NewAuthService(repo repository.UserRepository, notifications NotificationService, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:          repo,
		notifications: notifications,
		secret:        secret,
		tokenTTL:      tokenTTL,
	}
}

// Register creates an account, or returns the stored profile unchanged when
// the email is already registered.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		existing.PasswordHash = ""
		return &dto.AuthResponse{User: existing, Existing: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := policy.NormalizeRole(req.Role)
	user := &model.User{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Points:       0,
		ProfileImage: req.ProfileImage,
	}

	// The role decides which identity field is mandatory; the others stay
	// empty so each account carries exactly one of them.
	switch role {
	case policy.RoleStudent, policy.RoleTutor:
		if req.Grade == nil || *req.Grade == "" {
			return nil, apperror.New(http.StatusBadRequest, "grade is required for students", apperror.ErrInvalidInput)
		}
		grade := policy.NormalizeGrade(*req.Grade)
		user.Grade = &grade
	case policy.RoleTeacher:
		if req.Subject == nil || *req.Subject == "" {
			return nil, apperror.New(http.StatusBadRequest, "subject is required for teachers", apperror.ErrInvalidInput)
		}
		user.Subject = req.Subject
	case policy.RoleParent:
		if req.StudentEmail == nil || *req.StudentEmail == "" {
			return nil, apperror.New(http.StatusBadRequest, "student email is required for parents", apperror.ErrInvalidInput)
		}
		user.StudentEmail = req.StudentEmail
	}

	roleRecord, err := s.repo.FindRoleByName(ctx, string(role))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", role)
		}
		return nil, err
	}
	user.RoleID = &roleRecord.ID

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	return s.buildAuthResponse(created)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
	}

	// Second promotion call site: a student whose points crossed the
	// threshold while this check was missed elsewhere is promoted here.
	if err := s.checkPromotion(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) checkPromotion(ctx context.Context, user *model.User) error {
	role := policy.NormalizeRole(user.Role.Name)
	if !policy.ShouldPromote(role, user.Points) {
		return nil
	}

	tutorRole, err := s.repo.FindRoleByName(ctx, string(policy.RoleTutor))
	if err != nil {
		return err
	}

	if err := s.repo.UpdateRole(ctx, user.ID, tutorRole.ID); err != nil {
		return err
	}

	user.RoleID = &tutorRole.ID
	user.Role = *tutorRole

	if s.notifications != nil {
		s.notifications.NotifyAsync(&model.Notification{
			UserID:  user.ID,
			Type:    model.NotificationAchievement,
			Title:   "You are now a tutor!",
			Message: fmt.Sprintf("You reached %d points and can now help students in lower grades.", user.Points),
		})
	}

	return nil
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
