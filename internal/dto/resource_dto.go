package dto

import "github.com/google/uuid"

type CreateResourceRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	FileURL     string `json:"file_url" binding:"required,url"`
	FileType    string `json:"file_type" binding:"omitempty,oneof=pdf image other"`
	Subject     string `json:"subject" binding:"required"`
	Topic       string `json:"topic"`
	Grade       string `json:"classroom" binding:"required"`
}

type ResourceFilter struct {
	PageFilter
	Subject string `form:"subject"`
}

type ResourceResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	FileURL     string         `json:"file_url"`
	FileType    string         `json:"file_type"`
	Subject     string         `json:"subject"`
	Topic       string         `json:"topic"`
	Grade       string         `json:"classroom"`
	UploadedBy  AuthorResponse `json:"uploaded_by"`
	CreatedAt   string         `json:"created_at"`
}

type PaginatedResourceResponse struct {
	Data []ResourceResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}

type RecordDownloadRequest struct {
	ResourceID string `json:"resource_id" binding:"required,uuid"`
	FilePath   string `json:"file_path"`
}
