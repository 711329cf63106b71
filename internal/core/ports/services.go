package ports

import (
	"context"

	"github.com/healthics/portal/internal/core/domain"
)

// Resolver assembles reconciled per-patient views for admin requests.
type Resolver interface {
	ResolvePatientView(ctx context.Context, sess *domain.Session, patientID int64) (*domain.ReconciledPatientView, error)
}

// ProfileService covers patient-facing profile operations.
type ProfileService interface {
	GetProfile(ctx context.Context, sess *domain.Session) (*domain.PatientProfile, error)
	CreateProfile(ctx context.Context, sess *domain.Session, input ProfileInput) (*domain.PatientProfile, error)
	UpdateProfile(ctx context.Context, sess *domain.Session, input ProfileInput) (*domain.PatientProfile, error)
}

// BrowseInput selects and pages the admin all-documents view. Empty or
// "all" filter values are no-ops.
type BrowseInput struct {
	Search     string
	CategoryID string
	OwnerID    string
	Page       int
	PerPage    int
}

// BrowseOutput is one page of the filtered document set.
type BrowseOutput struct {
	Documents  []domain.Document `json:"documents"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalPages int               `json:"totalPages"`
}

// DocumentService covers patient document operations plus the admin browse
// pipeline.
type DocumentService interface {
	ListMine(ctx context.Context, sess *domain.Session) ([]domain.Document, error)
	Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Document, error)
	Upload(ctx context.Context, sess *domain.Session, input UploadDocumentInput) (*domain.Document, error)
	Update(ctx context.Context, sess *domain.Session, id int64, input UpdateDocumentInput) (*domain.Document, error)
	Delete(ctx context.Context, sess *domain.Session, id int64) error
	Download(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error)
	Categories(ctx context.Context, sess *domain.Session) ([]domain.DocumentCategory, error)
	Browse(ctx context.Context, sess *domain.Session, input BrowseInput) (*BrowseOutput, error)
}

// AdminService covers the remaining admin operations.
type AdminService interface {
	ListPatients(ctx context.Context, sess *domain.Session) ([]domain.PatientUser, error)
	ListPatientsWithProfiles(ctx context.Context, sess *domain.Session) ([]domain.PatientProfile, error)
	SetPatientStatus(ctx context.Context, sess *domain.Session, userID int64, active bool) error
	SetPatientBan(ctx context.Context, sess *domain.Session, userID int64, banned bool) error
	ListPatientDocuments(ctx context.Context, sess *domain.Session, userID int64) ([]domain.Document, error)
	DownloadDocument(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error)
	Statistics(ctx context.Context, sess *domain.Session) (*domain.StatisticsReport, error)
	ExtendedStatistics(ctx context.Context, sess *domain.Session) (*domain.ExtendedStatisticsReport, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
