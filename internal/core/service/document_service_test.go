package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

func patientSession() *domain.Session {
	return &domain.Session{
		ID:        "sess-2",
		Principal: domain.Principal{ID: 7, Username: "john", Roles: []domain.Role{domain.RolePatient}},
	}
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	gw := &documentGatewayStub{}
	svc := NewDocumentService(gw, &recorderSpy{}, zerolog.Nop())

	cases := []struct {
		name  string
		input ports.UploadDocumentInput
	}{
		{"no file", ports.UploadDocumentInput{Title: "t", CategoryID: 1}},
		{"no title", ports.UploadDocumentInput{Data: []byte("x"), CategoryID: 1}},
		{"no category", ports.UploadDocumentInput{Data: []byte("x"), Title: "t"}},
		{"bad date", ports.UploadDocumentInput{Data: []byte("x"), Title: "t", CategoryID: 1, DocumentDate: "15-01-2026"}},
	}

	for _, c := range cases {
		if _, err := svc.Upload(context.Background(), patientSession(), c.input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
}

func TestDocumentService_Update_Validation(t *testing.T) {
	svc := NewDocumentService(&documentGatewayStub{}, &recorderSpy{}, zerolog.Nop())

	_, err := svc.Update(context.Background(), patientSession(), 5, ports.UpdateDocumentInput{Title: "", CategoryID: 1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.Update(context.Background(), patientSession(), 5, ports.UpdateDocumentInput{Title: "t", CategoryID: 1, DocumentDate: "2026/01/15"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad date, got %v", err)
	}
}

func TestDocumentService_Delete_Audited(t *testing.T) {
	audit := &recorderSpy{}
	svc := NewDocumentService(&documentGatewayStub{}, audit, zerolog.Nop())

	if err := svc.Delete(context.Background(), patientSession(), 5); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != domain.AuditDelete {
		t.Fatalf("unexpected audit actions: %v", actions)
	}
}

func TestDocumentService_Browse_FiltersAndPages(t *testing.T) {
	gw := &documentGatewayStub{all: []domain.Document{
		{ID: 1, Title: "Blood Test", CategoryID: 1, OwnerUserID: 7},
		{ID: 2, Title: "X-Ray", CategoryID: 2, OwnerUserID: 7},
		{ID: 3, Title: "Blood Panel", CategoryID: 1, OwnerUserID: 8},
	}}
	svc := NewDocumentService(gw, &recorderSpy{}, zerolog.Nop())

	out, err := svc.Browse(context.Background(), adminSession(), ports.BrowseInput{Search: "blood", OwnerID: "8"})
	if err != nil {
		t.Fatalf("Browse returned error: %v", err)
	}
	if out.Total != 1 || len(out.Documents) != 1 || out.Documents[0].ID != 3 {
		t.Fatalf("unexpected browse result: %+v", out)
	}
	if out.Page != 1 || out.PerPage != defaultPerPage || out.TotalPages != 1 {
		t.Fatalf("unexpected paging: %+v", out)
	}
}

func TestDocumentService_Browse_UpstreamErrorPassesThrough(t *testing.T) {
	gw := &documentGatewayStub{allErr: domain.ErrForbidden}
	svc := NewDocumentService(gw, &recorderSpy{}, zerolog.Nop())

	if _, err := svc.Browse(context.Background(), adminSession(), ports.BrowseInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
