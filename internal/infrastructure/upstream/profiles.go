package upstream

import (
	"context"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

// ProfileGateway covers the patient-facing profile endpoints.
type ProfileGateway struct {
	c *Client
}

func NewProfileGateway(c *Client) *ProfileGateway {
	return &ProfileGateway{c: c}
}

type profilePayload struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	PhoneNumber      string `json:"phoneNumber"`
	Address          string `json:"address"`
	MedicalHistory   string `json:"medicalHistory"`
	Allergies        string `json:"allergies"`
	Medications      string `json:"medications"`
	EmergencyContact string `json:"emergencyContact"`
}

func profileBody(input ports.ProfileInput) profilePayload {
	return profilePayload{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		DateOfBirth:      input.DateOfBirth,
		PhoneNumber:      input.PhoneNumber,
		Address:          input.Address,
		MedicalHistory:   input.MedicalHistory,
		Allergies:        input.Allergies,
		Medications:      input.Medications,
		EmergencyContact: input.EmergencyContact,
	}
}

func (g *ProfileGateway) GetProfile(ctx context.Context, sess *domain.Session) (*domain.PatientProfile, error) {
	var profile domain.PatientProfile
	if err := g.c.getJSON(ctx, "profile.get", "/patients/profile", sess, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g *ProfileGateway) CreateProfile(ctx context.Context, sess *domain.Session, input ports.ProfileInput) (*domain.PatientProfile, error) {
	var profile domain.PatientProfile
	if err := g.c.postJSON(ctx, "profile.create", "/patients/profile", sess, profileBody(input), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g *ProfileGateway) UpdateProfile(ctx context.Context, sess *domain.Session, input ports.ProfileInput) (*domain.PatientProfile, error) {
	var profile domain.PatientProfile
	if err := g.c.putJSON(ctx, "profile.update", "/patients/profile", sess, profileBody(input), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
