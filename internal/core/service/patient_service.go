package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// PatientService covers patient-facing profile operations. Thin by design:
// the upstream backend owns profile validation and storage.
type PatientService struct {
	profiles ports.ProfileGateway
	log      zerolog.Logger
}

func NewPatientService(profiles ports.ProfileGateway, log zerolog.Logger) *PatientService {
	return &PatientService{profiles: profiles, log: log}
}

func (s *PatientService) GetProfile(ctx context.Context, sess *domain.Session) (*domain.PatientProfile, error) {
	return s.profiles.GetProfile(ctx, sess)
}

func (s *PatientService) CreateProfile(ctx context.Context, sess *domain.Session, input ports.ProfileInput) (*domain.PatientProfile, error) {
	profile, err := s.profiles.CreateProfile(ctx, sess, input)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", sess.Principal.ID).Msg("profile created")
	return profile, nil
}

func (s *PatientService) UpdateProfile(ctx context.Context, sess *domain.Session, input ports.ProfileInput) (*domain.PatientProfile, error) {
	return s.profiles.UpdateProfile(ctx, sess, input)
}
