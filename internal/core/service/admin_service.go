package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/api/metrics"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
	"github.com/healthics/portal/internal/infrastructure/demo"
)

// AdminService covers the admin operations outside the resolver: patient
// listings, status/ban toggles, statistics, and the activity feed.
type AdminService struct {
	directory ports.DirectoryGateway
	documents ports.DocumentGateway
	stats     ports.StatsGateway
	activity  ports.ActivityLog
	audit     ports.AuditRecorder
	demoMode  bool
	log       zerolog.Logger
}

func NewAdminService(directory ports.DirectoryGateway, documents ports.DocumentGateway, stats ports.StatsGateway, activity ports.ActivityLog, audit ports.AuditRecorder, demoMode bool, log zerolog.Logger) *AdminService {
	return &AdminService{
		directory: directory,
		documents: documents,
		stats:     stats,
		activity:  activity,
		audit:     audit,
		demoMode:  demoMode,
		log:       log,
	}
}

func (s *AdminService) ListPatients(ctx context.Context, sess *domain.Session) ([]domain.PatientUser, error) {
	return s.directory.ListAllPatients(ctx, sess)
}

func (s *AdminService) ListPatientsWithProfiles(ctx context.Context, sess *domain.Session) ([]domain.PatientProfile, error) {
	return s.directory.ListPatientsWithProfiles(ctx, sess)
}

func (s *AdminService) SetPatientStatus(ctx context.Context, sess *domain.Session, userID int64, active bool) error {
	if err := s.directory.SetPatientStatus(ctx, sess, userID, active); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditStatusChange,
		Detail:   fmt.Sprintf("patient %d active=%t", userID, active),
	})
	return nil
}

func (s *AdminService) SetPatientBan(ctx context.Context, sess *domain.Session, userID int64, banned bool) error {
	if err := s.directory.SetPatientBan(ctx, sess, userID, banned); err != nil {
		return err
	}

	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditBanChange,
		Detail:   fmt.Sprintf("patient %d banned=%t", userID, banned),
	})
	return nil
}

func (s *AdminService) ListPatientDocuments(ctx context.Context, sess *domain.Session, userID int64) ([]domain.Document, error) {
	return s.documents.ListForPatient(ctx, sess, userID)
}

func (s *AdminService) DownloadDocument(ctx context.Context, sess *domain.Session, id int64) (*domain.FileDownload, error) {
	file, err := s.documents.AdminDownload(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	metrics.DocumentDownloadsTotal.WithLabelValues("admin").Inc()
	s.audit.Record(domain.AuditEvent{
		UserID:   sess.Principal.ID,
		Username: sess.Principal.Username,
		Action:   domain.AuditDownload,
		Detail:   fmt.Sprintf("document %d (admin)", id),
	})
	return file, nil
}

// Statistics returns live numbers, or labeled demo numbers when the
// gateway runs in demo mode. A live failure surfaces as an error; demo
// data never masks one.
func (s *AdminService) Statistics(ctx context.Context, sess *domain.Session) (*domain.StatisticsReport, error) {
	if s.demoMode {
		s.log.Warn().Msg("serving demo statistics")
		return &domain.StatisticsReport{Source: domain.StatsSourceDemo, Statistics: demo.Statistics()}, nil
	}

	stats, err := s.stats.Statistics(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &domain.StatisticsReport{Source: domain.StatsSourceLive, Statistics: *stats}, nil
}

func (s *AdminService) ExtendedStatistics(ctx context.Context, sess *domain.Session) (*domain.ExtendedStatisticsReport, error) {
	if s.demoMode {
		s.log.Warn().Msg("serving demo extended statistics")
		return &domain.ExtendedStatisticsReport{Source: domain.StatsSourceDemo, Data: demo.ExtendedStatistics()}, nil
	}

	data, err := s.stats.ExtendedStatistics(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &domain.ExtendedStatisticsReport{Source: domain.StatsSourceLive, Data: data}, nil
}

func (s *AdminService) RecentActivity(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return s.activity.Recent(ctx, limit)
}
