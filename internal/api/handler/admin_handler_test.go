package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/healthics/portal/internal/api/middleware"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

type stubAdminService struct {
	statusCalls []struct {
		userID int64
		active bool
	}
	banCalls []struct {
		userID int64
		banned bool
	}
	activity []domain.AuditEvent
}

func (s *stubAdminService) ListPatients(context.Context, *domain.Session) ([]domain.PatientUser, error) {
	return []domain.PatientUser{{ID: 7, Username: "john"}}, nil
}

func (s *stubAdminService) ListPatientsWithProfiles(context.Context, *domain.Session) ([]domain.PatientProfile, error) {
	return nil, nil
}

func (s *stubAdminService) SetPatientStatus(_ context.Context, _ *domain.Session, userID int64, active bool) error {
	s.statusCalls = append(s.statusCalls, struct {
		userID int64
		active bool
	}{userID, active})
	return nil
}

func (s *stubAdminService) SetPatientBan(_ context.Context, _ *domain.Session, userID int64, banned bool) error {
	s.banCalls = append(s.banCalls, struct {
		userID int64
		banned bool
	}{userID, banned})
	return nil
}

func (s *stubAdminService) ListPatientDocuments(context.Context, *domain.Session, int64) ([]domain.Document, error) {
	return nil, nil
}

func (s *stubAdminService) DownloadDocument(context.Context, *domain.Session, int64) (*domain.FileDownload, error) {
	return &domain.FileDownload{Data: []byte("pdf"), ContentType: "application/pdf", Filename: "scan.pdf"}, nil
}

func (s *stubAdminService) Statistics(context.Context, *domain.Session) (*domain.StatisticsReport, error) {
	return &domain.StatisticsReport{Source: domain.StatsSourceLive}, nil
}

func (s *stubAdminService) ExtendedStatistics(context.Context, *domain.Session) (*domain.ExtendedStatisticsReport, error) {
	return &domain.ExtendedStatisticsReport{Source: domain.StatsSourceLive, Data: json.RawMessage(`{}`)}, nil
}

func (s *stubAdminService) RecentActivity(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit < len(s.activity) {
		return s.activity[:limit], nil
	}
	return s.activity, nil
}

type stubResolver struct {
	view *domain.ReconciledPatientView
	err  error

	gotPatientID int64
}

func (r *stubResolver) ResolvePatientView(_ context.Context, _ *domain.Session, patientID int64) (*domain.ReconciledPatientView, error) {
	r.gotPatientID = patientID
	return r.view, r.err
}

type stubDocumentService struct {
	browseIn ports.BrowseInput
}

func (s *stubDocumentService) ListMine(context.Context, *domain.Session) ([]domain.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) Get(context.Context, *domain.Session, int64) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocumentService) Upload(context.Context, *domain.Session, ports.UploadDocumentInput) (*domain.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) Update(context.Context, *domain.Session, int64, ports.UpdateDocumentInput) (*domain.Document, error) {
	return nil, nil
}

func (s *stubDocumentService) Delete(context.Context, *domain.Session, int64) error {
	return nil
}

func (s *stubDocumentService) Download(context.Context, *domain.Session, int64) (*domain.FileDownload, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocumentService) Categories(context.Context, *domain.Session) ([]domain.DocumentCategory, error) {
	return nil, nil
}

func (s *stubDocumentService) Browse(_ context.Context, _ *domain.Session, input ports.BrowseInput) (*ports.BrowseOutput, error) {
	s.browseIn = input
	return &ports.BrowseOutput{Page: 1, PerPage: 10, TotalPages: 1}, nil
}

func newAdminContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextSession, &domain.Session{
		ID:        "sess-1",
		Principal: domain.Principal{ID: 99, Username: "root", Roles: []domain.Role{domain.RoleAdmin}},
	})
	return c, rec
}

func TestAdminHandler_PatientView(t *testing.T) {
	resolver := &stubResolver{view: &domain.ReconciledPatientView{
		PatientUser:    domain.PatientUser{ID: 7, Username: "john"},
		Documents:      []domain.Document{},
		ProfileMissing: true,
	}}
	handler := NewAdminHandler(&stubAdminService{}, resolver, &stubDocumentService{})

	c, rec := newAdminContext(t, "/admin/patients/7/view")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.PatientView(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.gotPatientID != 7 {
		t.Fatalf("resolver called with %d, want 7", resolver.gotPatientID)
	}

	var view domain.ReconciledPatientView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !view.ProfileMissing || view.PatientUser.Username != "john" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestAdminHandler_PatientView_BadID(t *testing.T) {
	handler := NewAdminHandler(&stubAdminService{}, &stubResolver{}, &stubDocumentService{})

	for _, id := range []string{"abc", "0", "-3"} {
		c, _ := newAdminContext(t, "/admin/patients/"+id+"/view")
		c.SetParamNames("id")
		c.SetParamValues(id)

		err := handler.PatientView(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %v", id, err)
		}
	}
}

func TestAdminHandler_SetPatientStatus(t *testing.T) {
	svc := &stubAdminService{}
	handler := NewAdminHandler(svc, &stubResolver{}, &stubDocumentService{})

	c, rec := newAdminContext(t, "/admin/patients/7/status?active=false")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.SetPatientStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.statusCalls) != 1 || svc.statusCalls[0].userID != 7 || svc.statusCalls[0].active {
		t.Fatalf("unexpected status calls: %+v", svc.statusCalls)
	}
}

func TestAdminHandler_SetPatientStatus_MissingQuery(t *testing.T) {
	handler := NewAdminHandler(&stubAdminService{}, &stubResolver{}, &stubDocumentService{})

	c, _ := newAdminContext(t, "/admin/patients/7/status")
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := handler.SetPatientStatus(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without active param, got %v", err)
	}
}

func TestAdminHandler_SetPatientBan(t *testing.T) {
	svc := &stubAdminService{}
	handler := NewAdminHandler(svc, &stubResolver{}, &stubDocumentService{})

	c, rec := newAdminContext(t, "/admin/patients/7/ban?banned=true")
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := handler.SetPatientBan(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(svc.banCalls) != 1 || !svc.banCalls[0].banned {
		t.Fatalf("unexpected ban calls: %+v", svc.banCalls)
	}
}

func TestAdminHandler_BrowseDocuments_ForwardsQuery(t *testing.T) {
	docs := &stubDocumentService{}
	handler := NewAdminHandler(&stubAdminService{}, &stubResolver{}, docs)

	c, rec := newAdminContext(t, "/admin/documents?search=blood&category=2&owner=7&page=3&perPage=5")
	if err := handler.BrowseDocuments(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	in := docs.browseIn
	if in.Search != "blood" || in.CategoryID != "2" || in.OwnerID != "7" || in.Page != 3 || in.PerPage != 5 {
		t.Fatalf("query not forwarded: %+v", in)
	}
}

func TestAdminHandler_DownloadDocument(t *testing.T) {
	handler := NewAdminHandler(&stubAdminService{}, &stubResolver{}, &stubDocumentService{})

	c, rec := newAdminContext(t, "/admin/documents/5/download")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := handler.DownloadDocument(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="scan.pdf"` {
		t.Fatalf("unexpected disposition: %q", got)
	}
	if rec.Body.String() != "pdf" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestAdminHandler_MissingSession(t *testing.T) {
	handler := NewAdminHandler(&stubAdminService{}, &stubResolver{}, &stubDocumentService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/patients/all", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.ListPatients(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %v", err)
	}
}
