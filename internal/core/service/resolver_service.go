package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// ResolverService assembles the reconciled admin view of one patient from
// three independently-failable upstream lookups. Only the directory lookup
// is fatal: a missing profile or a failed document fetch degrades into an
// explicit marker on the view, never into an error.
type ResolverService struct {
	directory ports.DirectoryGateway
	documents ports.DocumentGateway
	audit     ports.AuditRecorder
	// docFallback enables the secondary strategy: when the per-patient
	// document endpoint 404s, fetch the full admin list and filter by owner.
	docFallback bool
	log         zerolog.Logger
}

func NewResolverService(directory ports.DirectoryGateway, documents ports.DocumentGateway, audit ports.AuditRecorder, docFallback bool, log zerolog.Logger) *ResolverService {
	return &ResolverService{
		directory:   directory,
		documents:   documents,
		audit:       audit,
		docFallback: docFallback,
		log:         log,
	}
}

func (s *ResolverService) ResolvePatientView(ctx context.Context, sess *domain.Session, patientID int64) (*domain.ReconciledPatientView, error) {
	// Step 1: the directory is the source of truth for existence, username
	// and the hasProfile flag. Without it there is no view.
	directory, err := s.directory.ListAllPatients(ctx, sess)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: directory lookup: %w", domain.ErrResolution, err)
	}

	// Step 2: locate the target.
	var target *domain.PatientUser
	for i := range directory {
		if directory[i].ID == patientID {
			target = &directory[i]
			break
		}
	}
	if target == nil {
		metrics.ResolutionsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: patient %d", domain.ErrPatientNotFound, patientID)
	}

	// Steps 3 and 4 are independent: fire both, await both. Each writes
	// only its own result struct, and assembly starts strictly after the
	// WaitGroup releases.
	var (
		wg sync.WaitGroup

		profile        *domain.PatientProfile
		profileMissing bool

		documents []domain.Document
		docsErr   string
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		profile, profileMissing = s.resolveProfile(ctx, sess, target)
	}()

	go func() {
		defer wg.Done()
		documents, docsErr = s.resolveDocuments(ctx, sess, target)
	}()

	wg.Wait()

	// Step 5: assembly. No failure path — every partial failure is already
	// normalized into an optional field.
	view := &domain.ReconciledPatientView{
		PatientUser:    *target,
		Profile:        profile,
		Documents:      documents,
		ProfileMissing: profileMissing,
		DocumentsError: docsErr,
	}

	outcome := "full"
	if profileMissing || docsErr != "" {
		outcome = "partial"
	}
	metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditResolution,
		Detail:   fmt.Sprintf("patient %d", patientID),
	})

	return view, nil
}

// resolveProfile fetches the full profile for the target when the directory
// claims one exists. Both a failed fetch and a flag/collection mismatch
// degrade to "missing": the view must render without a profile.
func (s *ResolverService) resolveProfile(ctx context.Context, sess *domain.Session, target *domain.PatientUser) (*domain.PatientProfile, bool) {
	if !target.HasProfile {
		return nil, true
	}

	profiles, err := s.directory.ListPatientsWithProfiles(ctx, sess)
	if err != nil {
		s.log.Warn().Err(err).Int64("patient_id", target.ID).Msg("profile lookup failed, degrading to missing")
		return nil, true
	}

	for i := range profiles {
		if profiles[i].UserID == target.ID {
			return &profiles[i], false
		}
	}

	// hasProfile said yes but the collection disagrees. A data-integrity
	// warning, not an error: the view proceeds without a profile.
	s.log.Warn().Int64("patient_id", target.ID).Msg("hasProfile set but no profile record found")
	return nil, true
}

// resolveDocuments fetches the target's document list and stamps owner
// identity from the directory record, since the list endpoint may omit it.
// Failure degrades to an empty list plus an explanation.
func (s *ResolverService) resolveDocuments(ctx context.Context, sess *domain.Session, target *domain.PatientUser) ([]domain.Document, string) {
	docs, err := s.documents.ListForPatient(ctx, sess, target.ID)
	if err != nil && s.docFallback && errors.Is(err, domain.ErrNotFound) {
		docs, err = s.fallbackDocuments(ctx, sess, target.ID)
	}
	if err != nil {
		s.log.Warn().Err(err).Int64("patient_id", target.ID).Msg("document lookup failed, returning partial view")
		return []domain.Document{}, fmt.Sprintf("could not load documents: %v", err)
	}

	for i := range docs {
		docs[i].OwnerUserID = target.ID
		docs[i].OwnerUsername = target.Username
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, ""
}

func (s *ResolverService) fallbackDocuments(ctx context.Context, sess *domain.Session, patientID int64) ([]domain.Document, error) {
	s.log.Warn().Int64("patient_id", patientID).
		Msg("per-patient document endpoint returned 404, falling back to filtered full list")

	all, err := s.documents.ListAll(ctx, sess)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	for _, d := range all {
		if d.OwnerUserID == patientID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}
