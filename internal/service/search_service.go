package service

import (
	"html"
	"log"
	"strings"

	"github.com/edulink-app/edulink-api/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the questions and resources indexes in Meilisearch up
// to date. Indexing failures never fail the originating request.
type SearchService interface {
	IndexQuestion(question *model.Question)
	IndexResource(resource *model.Resource)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	questionFilterable := []any{"grade", "subject", "status"}
	if _, err := s.client.Index("questions").UpdateFilterableAttributes(&questionFilterable); err != nil {
		log.Printf("failed to update questions filterable attributes: %v", err)
	}
	questionSortable := []string{"created_at", "upvotes"}
	if _, err := s.client.Index("questions").UpdateSortableAttributes(&questionSortable); err != nil {
		log.Printf("failed to update questions sortable attributes: %v", err)
	}

	resourceFilterable := []any{"grade", "subject", "file_type"}
	if _, err := s.client.Index("resources").UpdateFilterableAttributes(&resourceFilterable); err != nil {
		log.Printf("failed to update resources filterable attributes: %v", err)
	}
	resourceSortable := []string{"created_at"}
	if _, err := s.client.Index("resources").UpdateSortableAttributes(&resourceSortable); err != nil {
		log.Printf("failed to update resources sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type questionDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Grade       string `json:"grade"`
	Status      string `json:"status"`
	Upvotes     int    `json:"upvotes"`
	AskedBy     string `json:"asked_by"`
	CreatedAt   int64  `json:"created_at"`
}

type resourceDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	Grade       string `json:"grade"`
	FileType    string `json:"file_type"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *searchService) IndexQuestion(question *model.Question) {
	doc := questionDoc{
		ID:          question.ID.String(),
		Title:       question.Title,
		Description: s.cleanContent(question.Description),
		Subject:     question.Subject,
		Topic:       question.Topic,
		Grade:       question.Grade,
		Status:      question.Status,
		Upvotes:     question.Upvotes,
		AskedBy:     question.AskedBy.DisplayName,
		CreatedAt:   question.CreatedAt.Unix(),
	}

	if _, err := s.client.Index("questions").AddDocuments([]questionDoc{doc}, primaryKey()); err != nil {
		log.Printf("failed to index question %s: %v", question.ID, err)
	}
}

func (s *searchService) IndexResource(resource *model.Resource) {
	doc := resourceDoc{
		ID:          resource.ID.String(),
		Title:       resource.Title,
		Description: s.cleanContent(resource.Description),
		Subject:     resource.Subject,
		Topic:       resource.Topic,
		Grade:       resource.Grade,
		FileType:    resource.FileType,
		UploadedBy:  resource.UploadedBy.DisplayName,
		CreatedAt:   resource.CreatedAt.Unix(),
	}

	if _, err := s.client.Index("resources").AddDocuments([]resourceDoc{doc}, primaryKey()); err != nil {
		log.Printf("failed to index resource %s: %v", resource.ID, err)
	}
}

func primaryKey() *string {
	key := "id"
	return &key
}

func (s *searchService) cleanContent(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}
