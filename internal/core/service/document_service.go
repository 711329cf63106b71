package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

var documentDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DocumentService covers patient document operations and the admin browse
// pipeline. Passthrough operations stay thin; the browse pipeline owns
// filtering and pagination because the upstream list endpoint has neither.
type DocumentService struct {
	docs  ports.DocumentGateway
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewDocumentService(docs ports.DocumentGateway, audit ports.AuditRecorder, log zerolog.Logger) *DocumentService {
	return &DocumentService{docs: docs, audit: audit, log: log}
}

func (s *DocumentService) ListMine(ctx context.Context, sess *domain.Session) ([]domain.Document, error) {
	return s.docs.ListMine(ctx, sess)
}

func (s *DocumentService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Document, error) {
	return s.docs.Get(ctx, sess, id)
}

func (s *DocumentService) Upload(ctx context.Context, sess *domain.Session, input ports.UploadDocumentInput) (*domain.Document, error) {
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	if err := validateDocumentMetadata(input.Title, input.CategoryID, input.DocumentDate); err != nil {
		return nil, err
	}

	doc, err := s.docs.Upload(ctx, sess, input)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditUpload,
		Detail:   fmt.Sprintf("document %d (%s)", doc.ID, doc.Title),
	})
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, sess *domain.Session, id int64, input ports.UpdateDocumentInput) (*domain.Document, error) {
	if err := validateDocumentMetadata(input.Title, input.CategoryID, input.DocumentDate); err != nil {
		return nil, err
	}

	doc, err := s.docs.Update(ctx, sess, id, input)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditUpdate,
		Detail:   fmt.Sprintf("document %d", id),
	})
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.docs.Delete(ctx, sess, id); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditDelete,
		Detail:   fmt.Sprintf("document %d", id),
	})
	return nil
}

func (s *DocumentService) Download(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error) {
	file, err := s.docs.Download(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	metrics.DocumentDownloadsTotal.WithLabelValues("patient").Inc()
	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditDownload,
		Detail:   fmt.Sprintf("document %d", id),
	})
	return file, nil
}

func (s *DocumentService) Categories(ctx context.Context, sess *domain.Session) ([]domain.DocumentCategory, error) {
	return s.docs.Categories(ctx, sess)
}

// Browse fetches the full admin document set and applies the conjunctive
// filter pipeline plus pagination.
func (s *DocumentService) Browse(ctx context.Context, sess *domain.Session, input ports.BrowseInput) (*ports.BrowseOutput, error) {
	docs, err := s.docs.ListAll(ctx, sess)
	if err != nil {
		return nil, err
	}

	state := NewFilterState(input.PerPage)
	state.SetSearch(input.Search)
	state.SetCategory(input.CategoryID)
	state.SetOwner(input.OwnerID)
	state.SetPage(input.Page)

	page := state.Paginate(docs)
	return &ports.BrowseOutput{
		Documents:  page.Documents,
		Total:      page.Total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: page.TotalPages,
	}, nil
}

func validateDocumentMetadata(title string, categoryID int64, documentDate string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if categoryID <= 0 {
		return fmt.Errorf("%w: categoryId is required", domain.ErrValidation)
	}
	if documentDate != "" && !documentDateRe.MatchString(documentDate) {
		return fmt.Errorf("%w: documentDate must be YYYY-MM-DD", domain.ErrValidation)
	}
	return nil
}
