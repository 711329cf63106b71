package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
)

func testSession() *domain.Session {
	return &domain.Session{
		ID:            "sess-1",
		Principal:     domain.Principal{ID: 7, Username: "john"},
		UpstreamToken: "upstream-token",
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop()), srv
}

func TestClient_InjectsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	gw := NewDocumentGateway(client)
	if _, err := gw.ListMine(context.Background(), testSession()); err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if gotAuth != "Bearer upstream-token" {
		t.Fatalf("Authorization = %q, want bearer with session token", gotAuth)
	}
}

func TestClient_NoTokenWithoutSession(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"t","id":1,"username":"john","roles":["ROLE_PATIENT"]}`))
	}))

	gw := NewAuthGateway(client)
	result, err := gw.Login(context.Background(), "john", "pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("login must not carry a bearer token, got %q", gotAuth)
	}
	if result.Token != "t" || !result.Principal.HasRole(domain.RolePatient) {
		t.Fatalf("unexpected login result: %+v", result)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusBadRequest, domain.ErrValidation},
		{http.StatusUnprocessableEntity, domain.ErrValidation},
		{http.StatusInternalServerError, domain.ErrServer},
		{http.StatusBadGateway, domain.ErrServer},
	}

	for _, c := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
			w.Write([]byte(`{"message":"nope"}`))
		}))

		gw := NewDocumentGateway(client)
		_, err := gw.Get(context.Background(), testSession(), 1)
		if !errors.Is(err, c.want) {
			t.Fatalf("status %d mapped to %v, want %v", c.status, err, c.want)
		}
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // guarantee a refused connection

	client := NewClient(srv.URL, time.Second, zerolog.Nop())
	gw := NewDocumentGateway(client)

	if _, err := gw.ListMine(context.Background(), testSession()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_UnauthorizedFiresInvalidationHook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))

	var invalidated []string
	client.OnUnauthorized(func(_ context.Context, sessionID string) {
		invalidated = append(invalidated, sessionID)
	})

	gw := NewDocumentGateway(client)
	_, err := gw.ListMine(context.Background(), testSession())
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if len(invalidated) != 1 || invalidated[0] != "sess-1" {
		t.Fatalf("hook calls = %v, want the failing session", invalidated)
	}
}

func TestClient_UnauthorizedWithoutSessionSkipsHook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad credentials"}`))
	}))

	called := false
	client.OnUnauthorized(func(context.Context, string) { called = true })

	gw := NewAuthGateway(client)
	if _, err := gw.Login(context.Background(), "john", "wrong"); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
	if called {
		t.Fatalf("a failed login has no session to tear down")
	}
}

func TestUpstreamMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"explicit message"}`, "explicit message"},
		{`{"error":"error key"}`, "error key"},
		{`{"message":"wins","error":"loses"}`, "wins"},
		{`not json at all`, "upstream request failed"},
		{``, "upstream request failed"},
	}
	for _, c := range cases {
		if got := upstreamMessage([]byte(c.body)); got != c.want {
			t.Errorf("upstreamMessage(%q) = %q, want %q", c.body, got, c.want)
		}
	}
}

func TestDocumentGateway_Download(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
		w.Write([]byte("%PDF-1.4"))
	}))

	gw := NewDocumentGateway(client)
	file, err := gw.Download(context.Background(), testSession(), 5)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if file.Filename != "report.pdf" || file.ContentType != "application/pdf" {
		t.Fatalf("unexpected file metadata: %+v", file)
	}
	if string(file.Data) != "%PDF-1.4" {
		t.Fatalf("unexpected payload: %q", file.Data)
	}
}

func TestDownloadFilename_Fallback(t *testing.T) {
	cases := []struct {
		disposition string
		want        string
	}{
		{`attachment; filename="scan.png"`, "scan.png"},
		{`attachment`, "document-9"},
		{``, "document-9"},
		{`garbage;;;`, "document-9"},
	}
	for _, c := range cases {
		if got := downloadFilename(c.disposition, 9); got != c.want {
			t.Errorf("downloadFilename(%q) = %q, want %q", c.disposition, got, c.want)
		}
	}
}

func TestDocumentGateway_UploadSendsMultipart(t *testing.T) {
	var gotTitle, gotCategory, gotFile string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("not multipart: %v", err)
		}
		gotTitle = r.FormValue("title")
		gotCategory = r.FormValue("categoryId")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFile = header.Filename
		}
		w.Write([]byte(`{"id":10,"title":"Blood Test","categoryId":1}`))
	}))

	gw := NewDocumentGateway(client)
	doc, err := gw.Upload(context.Background(), testSession(), ports.UploadDocumentInput{
		Filename:    "scan.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
		Title:       "Blood Test",
		CategoryID:  1,
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if doc.ID != 10 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if gotTitle != "Blood Test" || gotCategory != "1" || gotFile != "scan.png" {
		t.Fatalf("multipart fields wrong: title=%q category=%q file=%q", gotTitle, gotCategory, gotFile)
	}
}
