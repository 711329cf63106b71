package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/healthics/portal/internal/core/domain"
)

// DirectoryGateway covers the admin patient-directory endpoints.
//
// The backend serves patient records in two shapes: /admin/patients/all
// returns flat user records, while /admin/patients and
// /admin/patients/with-profiles return profile records with the account
// nested under "user". The normalizers below accept either shape via gjson
// rather than double-decoding against two struct layouts.
type DirectoryGateway struct {
	c *Client
}

func NewDirectoryGateway(c *Client) *DirectoryGateway {
	return &DirectoryGateway{c: c}
}

func (g *DirectoryGateway) ListAllPatients(ctx context.Context, sess *domain.Session) ([]domain.PatientUser, error) {
	data, _, err := g.c.do(ctx, "directory.list_all", http.MethodGet, "/admin/patients/all", sess, nil, "")
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: directory.list_all: expected an array", domain.ErrServer)
	}

	users := make([]domain.PatientUser, 0, len(parsed.Array()))
	for _, r := range parsed.Array() {
		users = append(users, normalizePatientUser(r))
	}
	return users, nil
}

func (g *DirectoryGateway) ListPatientsWithProfiles(ctx context.Context, sess *domain.Session) ([]domain.PatientProfile, error) {
	data, _, err := g.c.do(ctx, "directory.list_profiles", http.MethodGet, "/admin/patients/with-profiles", sess, nil, "")
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: directory.list_profiles: expected an array", domain.ErrServer)
	}

	profiles := make([]domain.PatientProfile, 0, len(parsed.Array()))
	for _, r := range parsed.Array() {
		profiles = append(profiles, normalizePatientProfile(r))
	}
	return profiles, nil
}

func (g *DirectoryGateway) SetPatientStatus(ctx context.Context, sess *domain.Session, userID int64, active bool) error {
	path := "/admin/patients/" + strconv.FormatInt(userID, 10) + "/status?active=" + strconv.FormatBool(active)
	_, _, err := g.c.do(ctx, "directory.set_status", http.MethodPut, path, sess, nil, "")
	return err
}

func (g *DirectoryGateway) SetPatientBan(ctx context.Context, sess *domain.Session, userID int64, banned bool) error {
	path := "/admin/patients/" + strconv.FormatInt(userID, 10) + "/ban?banned=" + strconv.FormatBool(banned)
	_, _, err := g.c.do(ctx, "directory.set_ban", http.MethodPut, path, sess, nil, "")
	return err
}

func normalizePatientUser(r gjson.Result) domain.PatientUser {
	// Nested shape: the record is a profile wrapping its account.
	if u := r.Get("user"); u.Exists() {
		return domain.PatientUser{
			ID:            u.Get("id").Int(),
			Username:      u.Get("username").String(),
			Email:         u.Get("email").String(),
			Active:        u.Get("active").Bool(),
			Banned:        u.Get("banned").Bool(),
			HasProfile:    true,
			DocumentCount: int(r.Get("documentCount").Int()),
		}
	}
	return domain.PatientUser{
		ID:            r.Get("id").Int(),
		Username:      r.Get("username").String(),
		Email:         r.Get("email").String(),
		Active:        r.Get("active").Bool(),
		Banned:        r.Get("banned").Bool(),
		HasProfile:    r.Get("hasProfile").Bool(),
		DocumentCount: int(r.Get("documentCount").Int()),
	}
}

func normalizePatientProfile(r gjson.Result) domain.PatientProfile {
	userID := r.Get("userId").Int()
	if userID == 0 {
		userID = r.Get("user.id").Int()
	}
	return domain.PatientProfile{
		ID:               r.Get("id").Int(),
		UserID:           userID,
		FirstName:        r.Get("firstName").String(),
		LastName:         r.Get("lastName").String(),
		DateOfBirth:      r.Get("dateOfBirth").String(),
		PhoneNumber:      r.Get("phoneNumber").String(),
		Address:          r.Get("address").String(),
		MedicalHistory:   r.Get("medicalHistory").String(),
		Allergies:        r.Get("allergies").String(),
		Medications:      r.Get("medications").String(),
		EmergencyContact: r.Get("emergencyContact").String(),
	}
}
