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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateResourceRequest) (*dto.ResourceResponse, error)
	ListByClassroom(ctx context.Context, userID uuid.UUID, classroom string, filter dto.ResourceFilter) (*dto.PaginatedResourceResponse, error)
	RecordDownload(ctx context.Context, userID uuid.UUID, req dto.RecordDownloadRequest) error
	ListDownloads(ctx context.Context, userID uuid.UUID) ([]*model.Download, error)
}

type resourceService struct {
	resourceRepo  repository.ResourceRepository
	downloadRepo  repository.DownloadRepository
	userRepo      repository.UserRepository
	notifications NotificationService
	search        SearchService
}

func NewResourceService(
	resourceRepo repository.ResourceRepository,
	downloadRepo repository.DownloadRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	search SearchService,
) ResourceService {
	return &resourceService{
		resourceRepo:  resourceRepo,
		downloadRepo:  downloadRepo,
		userRepo:      userRepo,
		notifications: notifications,
		search:        search,
	}
}

func (s *resourceService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateResourceRequest) (*dto.ResourceResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	role := policy.NormalizeRole(user.Role.Name)
	if role == policy.RoleParent {
		return nil, apperror.New(http.StatusForbidden, "parents cannot upload resources", apperror.ErrForbidden)
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = model.FileTypeOther
	}

	resource := &model.Resource{
		Title:        req.Title,
		Description:  req.Description,
		FileURL:      req.FileURL,
		FileType:     fileType,
		Subject:      req.Subject,
		Topic:        req.Topic,
		Grade:        policy.NormalizeGrade(req.Grade),
		UploadedByID: userID,
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		return nil, err
	}

	resource.UploadedBy = *user
	if s.search != nil {
		go s.search.IndexResource(resource)
	}

	// Best-effort: let students in that grade know new material landed.
	go s.notifyGrade(resource)

	return s.mapResource(resource), nil
}

func (s *resourceService) ListByClassroom(ctx context.Context, userID uuid.UUID, classroom string, filter dto.ResourceFilter) (*dto.PaginatedResourceResponse, error) {
	filter.Normalize()

	viewer, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	grade := policy.NormalizeGrade(classroom)
	if !canSeeGrade(viewer, grade) {
		return nil, apperror.New(http.StatusForbidden, "classroom is outside your visible grades", apperror.ErrForbidden)
	}

	resources, total, err := s.resourceRepo.FindByGrade(ctx, grade, filter.Subject, (filter.Page-1)*filter.Limit, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ResourceResponse, 0, len(resources))
	for _, r := range resources {
		responses = append(responses, *s.mapResource(r))
	}

	return &dto.PaginatedResourceResponse{
		Data: responses,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *resourceService) RecordDownload(ctx context.Context, userID uuid.UUID, req dto.RecordDownloadRequest) error {
	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		return apperror.New(http.StatusBadRequest, "invalid resource id", apperror.ErrBadRequest)
	}

	if _, err := s.resourceRepo.FindByID(ctx, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(http.StatusNotFound, "resource not found", apperror.ErrNotFound)
		}
		return err
	}

	return s.downloadRepo.Create(ctx, &model.Download{
		UserID:     userID,
		ResourceID: resourceID,
		FilePath:   req.FilePath,
	})
}

func (s *resourceService) ListDownloads(ctx context.Context, userID uuid.UUID) ([]*model.Download, error) {
	return s.downloadRepo.FindByUser(ctx, userID)
}

func (s *resourceService) notifyGrade(resource *model.Resource) {
	if s.notifications == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	students, err := s.userRepo.FindStudentsByGrade(ctx, resource.Grade)
	if err != nil {
		return
	}

	for _, student := range students {
		if student.ID == resource.UploadedByID {
			continue
		}
		s.notifications.NotifyAsync(&model.Notification{
			UserID:  student.ID,
			ActorID: &resource.UploadedByID,
			Type:    model.NotificationResource,
			Title:   "New study material",
			Message: fmt.Sprintf("%q was added for grade %s %s", resource.Title, resource.Grade, resource.Subject),
		})
	}
}

func (s *resourceService) mapResource(r *model.Resource) *dto.ResourceResponse {
	return &dto.ResourceResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FileURL:     r.FileURL,
		FileType:    r.FileType,
		Subject:     r.Subject,
		Topic:       r.Topic,
		Grade:       r.Grade,
		UploadedBy:  mapAuthor(&r.UploadedBy),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
