package ports

import (
	"context"
	"encoding/json"

	"github.com/healthics/portal/internal/core/domain"
)

// The upstream gateways are thin: one network call per function, no
// retries, no caching. Errors surface as domain sentinels with the
// upstream status attached by the transport layer.

// LoginResult is the upstream login payload.
type LoginResult struct {
	Token     string
	Principal domain.Principal
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthGateway talks to the upstream auth endpoints.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) error
}

// ProfileInput carries patient profile fields for create/update.
type ProfileInput struct {
	FirstName        string
	LastName         string
	DateOfBirth      string
	PhoneNumber      string
	Address          string
	MedicalHistory   string
	Allergies        string
	Medications      string
	EmergencyContact string
}

// ProfileGateway covers the patient-facing profile endpoints.
type ProfileGateway interface {
	GetProfile(ctx context.Context, sess *domain.Session) (*domain.PatientProfile, error)
	CreateProfile(ctx context.Context, sess *domain.Session, input ProfileInput) (*domain.PatientProfile, error)
	UpdateProfile(ctx context.Context, sess *domain.Session, input ProfileInput) (*domain.PatientProfile, error)
}

// DirectoryGateway covers the admin patient-directory endpoints. The
// directory is the source of truth for account existence, username, and
// the hasProfile flag.
type DirectoryGateway interface {
	ListAllPatients(ctx context.Context, sess *domain.Session) ([]domain.PatientUser, error)
	ListPatientsWithProfiles(ctx context.Context, sess *domain.Session) ([]domain.PatientProfile, error)
	SetPatientStatus(ctx context.Context, sess *domain.Session, userID int64, active bool) error
	SetPatientBan(ctx context.Context, sess *domain.Session, userID int64, banned bool) error
}

// UploadDocumentInput carries a multipart upload.
type UploadDocumentInput struct {
	Filename     string
	ContentType  string
	Data         []byte
	Title        string
	Description  string
	CategoryID   int64
	DoctorName   string
	HospitalName string
	DocumentDate string
}

// UpdateDocumentInput carries a metadata-only update; the file payload is
// immutable.
type UpdateDocumentInput struct {
	Title        string
	Description  string
	CategoryID   int64
	DoctorName   string
	HospitalName string
	DocumentDate string
}

// DocumentGateway covers both the patient-facing and admin-facing document
// endpoints.
type DocumentGateway interface {
	ListMine(ctx context.Context, sess *domain.Session) ([]domain.Document, error)
	Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Document, error)
	Upload(ctx context.Context, sess *domain.Session, input UploadDocumentInput) (*domain.Document, error)
	Update(ctx context.Context, sess *domain.Session, id int64, input UpdateDocumentInput) (*domain.Document, error)
	Delete(ctx context.Context, sess *domain.Session, id int64) error
	Download(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error)
	Categories(ctx context.Context, sess *domain.Session) ([]domain.DocumentCategory, error)

	ListAll(ctx context.Context, sess *domain.Session) ([]domain.Document, error)
	ListForPatient(ctx context.Context, sess *domain.Session, userID int64) ([]domain.Document, error)
	AdminDownload(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error)
}

// StatsGateway covers the admin statistics endpoints.
type StatsGateway interface {
	Statistics(ctx context.Context, sess *domain.Session) (*domain.Statistics, error)
	ExtendedStatistics(ctx context.Context, sess *domain.Session) (json.RawMessage, error)
}
